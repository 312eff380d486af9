package admins

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/services"
	"github.com/TheSiteshKumar/parlegg/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GET /v1/admins/fund-requests
func GetAddFundRequests(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	status := r.URL.Query().Get("status")
	search := r.URL.Query().Get("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.AddFundRequest{}).
		Joins("JOIN users ON add_fund_requests.user_id = users.id")

	if status != "" {
		query = query.Where("add_fund_requests.status = ?", status)
	}
	if search != "" {
		query = query.Where("add_fund_requests.utr_number LIKE ? OR add_fund_requests.order_id LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	type fundRow struct {
		models.AddFundRequest
		UserName string
		Email    string
	}

	var rows []fundRow
	query.Select("add_fund_requests.*, users.name as user_name, users.email").
		Offset(offset).
		Limit(limit).
		Order("add_fund_requests.created_at DESC").
		Find(&rows)

	data := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		data = append(data, map[string]interface{}{
			"id":         row.ID,
			"user_id":    row.UserID,
			"user_name":  row.UserName,
			"email":      row.Email,
			"amount":     row.Amount,
			"utr_number": row.UTRNumber,
			"order_id":   row.OrderID,
			"status":     row.Status,
			"remark":     row.Remark,
			"created_at": row.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    data,
	})
}

// POST /v1/admins/fund-requests/{id}/approve
func ApproveAddFundRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request ID"})
		return
	}

	adminID := adminIDFromToken(r)
	wallets := services.NewWalletService(database.DB)

	var approved models.AddFundRequest
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var req models.AddFundRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, id).Error; err != nil {
			return err
		}
		if req.Status != "Pending" {
			return errNotPending
		}

		now := time.Now()
		req.Status = "Approved"
		req.ProcessedBy = adminID
		req.ProcessedAt = &now
		if err := tx.Save(&req).Error; err != nil {
			return err
		}

		if err := wallets.CreditFunds(tx, req.UserID, req.Amount); err != nil {
			return err
		}

		message := fmt.Sprintf("Funds added via UTR %s", req.UTRNumber)
		ledger := models.Transaction{
			UserID:          req.UserID,
			Amount:          req.Amount,
			OrderID:         utils.GenerateReferenceID(req.UserID),
			TransactionFlow: "credit",
			TransactionType: models.TxTypeFundAdded,
			Message:         &message,
			Status:          "Success",
		}
		if err := tx.Create(&ledger).Error; err != nil {
			return err
		}

		approved = req
		return nil
	})
	if err != nil {
		writeFundRequestError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Fund request approved",
		Data: map[string]interface{}{
			"id":     approved.ID,
			"status": approved.Status,
			"amount": approved.Amount,
		},
	})
}

// POST /v1/admins/fund-requests/{id}/reject
func RejectAddFundRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request ID"})
		return
	}

	var body struct {
		Remark string `json:"remark"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	adminID := adminIDFromToken(r)

	var rejected models.AddFundRequest
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var req models.AddFundRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, id).Error; err != nil {
			return err
		}
		if req.Status != "Pending" {
			return errNotPending
		}

		now := time.Now()
		req.Status = "Rejected"
		if body.Remark != "" {
			req.Remark = &body.Remark
		}
		req.ProcessedBy = adminID
		req.ProcessedAt = &now
		if err := tx.Save(&req).Error; err != nil {
			return err
		}

		rejected = req
		return nil
	})
	if err != nil {
		writeFundRequestError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Fund request rejected",
		Data: map[string]interface{}{
			"id":     rejected.ID,
			"status": rejected.Status,
		},
	})
}

func writeFundRequestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotPending):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Only pending requests can be processed"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Fund request not found"})
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process fund request"})
	}
}
