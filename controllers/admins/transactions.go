package admins

import (
	"net/http"
	"strconv"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"
)

type TransactionResponse struct {
	ID              uint    `json:"id"`
	UserID          uint    `json:"user_id"`
	UserName        string  `json:"username"`
	Email           string  `json:"email"`
	Amount          float64 `json:"amount"`
	Charge          float64 `json:"charge"`
	OrderID         string  `json:"order_id"`
	TransactionFlow string  `json:"transaction_flow"`
	TransactionType string  `json:"transaction_type"`
	Message         string  `json:"message"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
}

// GET /v1/admins/transactions
func GetTransactions(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	userId := r.URL.Query().Get("user_id")
	transactionType := r.URL.Query().Get("type")
	status := r.URL.Query().Get("status")
	orderID := r.URL.Query().Get("search")
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.Transaction{})

	if userId != "" {
		query = query.Where("transactions.user_id = ?", userId)
	}
	if transactionType != "" {
		query = query.Where("transactions.transaction_type = ?", transactionType)
	}
	if status != "" {
		query = query.Where("transactions.status = ?", status)
	}
	if orderID != "" {
		query = query.Where("transactions.order_id LIKE ?", "%"+orderID+"%")
	}

	// Date filters are interpreted in site-local days
	loc := utils.SiteLocation()
	if startDate != "" {
		startTime, err := time.ParseInLocation("2006-01-02", startDate, loc)
		if err == nil {
			query = query.Where("created_at >= ?", startTime)
		}
	}
	if endDate != "" {
		endTime, err := time.ParseInLocation("2006-01-02", endDate, loc)
		if err == nil {
			endTime = endTime.AddDate(0, 0, 1)
			query = query.Where("created_at < ?", endTime)
		}
	}

	var transactions []models.Transaction
	query.Offset(offset).
		Limit(limit).
		Order("transactions.created_at DESC").
		Find(&transactions)

	userIDsSet := make(map[uint]struct{})
	for _, t := range transactions {
		userIDsSet[t.UserID] = struct{}{}
	}
	var userIDs []uint
	for id := range userIDsSet {
		userIDs = append(userIDs, id)
	}

	usersByID := make(map[uint]models.User, len(userIDs))
	if len(userIDs) > 0 {
		var users []models.User
		db.Select("id, name, email").Where("id IN ?", userIDs).Find(&users)
		for _, u := range users {
			usersByID[u.ID] = u
		}
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response = append(response, TransactionResponse{
			ID:              t.ID,
			UserID:          t.UserID,
			UserName:        usersByID[t.UserID].Name,
			Email:           usersByID[t.UserID].Email,
			Amount:          t.Amount,
			Charge:          t.Charge,
			OrderID:         t.OrderID,
			TransactionFlow: t.TransactionFlow,
			TransactionType: t.TransactionType,
			Message:         utils.GetStringValue(t.Message),
			Status:          t.Status,
			CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    response,
	})
}
