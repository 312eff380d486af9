package admins

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"

	"github.com/gorilla/mux"
)

type InvestmentResponse struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	UserName     string  `json:"username"`
	Email        string  `json:"email"`
	PlanID       uint    `json:"plan_id"`
	PlanLevel    string  `json:"plan_level"`
	PlanName     string  `json:"plan_name"`
	Amount       float64 `json:"amount"`
	DailyReturns float64 `json:"daily_returns"`
	Duration     int     `json:"duration"`
	DaysAccrued  int     `json:"days_accrued"`
	TotalEarned  float64 `json:"total_earned"`
	LastAccrueAt string  `json:"last_accrue_at,omitempty"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	OrderID      string  `json:"order_id"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

// GET /v1/admins/investments
func GetInvestments(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	planID := r.URL.Query().Get("plan_id")
	status := r.URL.Query().Get("status")
	orderID := r.URL.Query().Get("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.Investment{}).
		Joins("JOIN users ON investments.user_id = users.id")

	if planID != "" {
		query = query.Where("investments.plan_id = ?", planID)
	}
	if status != "" {
		query = query.Where("investments.status = ?", status)
	}
	if orderID != "" {
		query = query.Where("investments.order_id LIKE ?", "%"+orderID+"%")
	}

	type investmentRow struct {
		models.Investment
		UserName string
		Email    string
	}

	var rows []investmentRow
	query.Select("investments.*, users.name as user_name, users.email").
		Offset(offset).
		Limit(limit).
		Order("investments.created_at DESC").
		Find(&rows)

	response := make([]InvestmentResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, investmentResponse(row.Investment, row.UserName, row.Email))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    response,
	})
}

// GET /v1/admins/investments/{id}
func GetInvestmentDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid investment ID",
		})
		return
	}

	var investment models.Investment
	if err := database.DB.First(&investment, id).Error; err != nil {
		writeNotFoundOrError(w, err, "Investment not found")
		return
	}

	var user models.User
	_ = database.DB.Select("id, name, email").First(&user, investment.UserID).Error

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    investmentResponse(investment, user.Name, user.Email),
	})
}

type UpdateInvestmentStatusRequest struct {
	Status string `json:"status"`
}

// PUT /v1/admins/investments/{id}/status
func UpdateInvestmentStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid investment ID",
		})
		return
	}

	var req UpdateInvestmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	validStatuses := map[string]bool{
		"Running":   true,
		"Completed": true,
		"Cancelled": true,
	}
	if !validStatuses[req.Status] {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid status",
		})
		return
	}

	var investment models.Investment
	if err := database.DB.First(&investment, id).Error; err != nil {
		writeNotFoundOrError(w, err, "Investment not found")
		return
	}

	investment.Status = req.Status
	if err := database.DB.Save(&investment).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to update investment status",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Investment status updated",
		Data: map[string]interface{}{
			"id":     investment.ID,
			"status": investment.Status,
		},
	})
}

func investmentResponse(inv models.Investment, userName, email string) InvestmentResponse {
	return InvestmentResponse{
		ID:           inv.ID,
		UserID:       inv.UserID,
		UserName:     userName,
		Email:        email,
		PlanID:       inv.PlanID,
		PlanLevel:    inv.PlanLevel,
		PlanName:     inv.PlanName,
		Amount:       inv.Amount,
		DailyReturns: inv.DailyReturns,
		Duration:     inv.Duration,
		DaysAccrued:  inv.DaysAccrued,
		TotalEarned:  inv.TotalEarned,
		LastAccrueAt: formatTimePtr(inv.LastAccrueAt),
		StartDate:    inv.StartDate.Format("2006-01-02"),
		EndDate:      inv.EndDate.Format("2006-01-02"),
		OrderID:      inv.OrderID,
		Status:       inv.Status,
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
