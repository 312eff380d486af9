package admins

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalResponse struct {
	ID            uint    `json:"id"`
	UserID        uint    `json:"user_id"`
	UserName      string  `json:"user_name"`
	Email         string  `json:"email"`
	PaymentMethod string  `json:"payment_method"`
	UpiID         *string `json:"upi_id,omitempty"`
	BankDetailID  *uint   `json:"bank_detail_id,omitempty"`
	BankName      string  `json:"bank_name,omitempty"`
	AccountHolder string  `json:"account_holder,omitempty"`
	AccountNumber string  `json:"account_number,omitempty"`
	IFSCCode      string  `json:"ifsc_code,omitempty"`
	Amount        float64 `json:"amount"`
	Charge        float64 `json:"charge"`
	FinalAmount   float64 `json:"final_amount"`
	OrderID       string  `json:"order_id"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id,omitempty"`
	Remark        *string `json:"remark,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// GET /v1/admins/withdrawals
func GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	status := r.URL.Query().Get("status")
	userID := r.URL.Query().Get("user_id")
	orderID := r.URL.Query().Get("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.Withdrawal{}).
		Joins("JOIN users ON withdrawals.user_id = users.id").
		Joins("LEFT JOIN bank_details ON withdrawals.bank_detail_id = bank_details.id")

	if status != "" {
		query = query.Where("withdrawals.status = ?", status)
	}
	if userID != "" {
		query = query.Where("withdrawals.user_id = ?", userID)
	}
	if orderID != "" {
		query = query.Where("withdrawals.order_id LIKE ?", "%"+orderID+"%")
	}

	type withdrawalRow struct {
		models.Withdrawal
		UserName      string
		Email         string
		BankName      string
		AccountHolder string
		AccountNumber string
		IFSCCode      string
	}

	var rows []withdrawalRow
	query.Select("withdrawals.*, users.name as user_name, users.email, bank_details.bank_name, bank_details.account_holder, bank_details.account_number, bank_details.ifsc_code").
		Offset(offset).
		Limit(limit).
		Order("withdrawals.created_at DESC").
		Find(&rows)

	response := make([]WithdrawalResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, WithdrawalResponse{
			ID:            row.ID,
			UserID:        row.UserID,
			UserName:      row.UserName,
			Email:         row.Email,
			PaymentMethod: row.PaymentMethod,
			UpiID:         row.Withdrawal.UpiID,
			BankDetailID:  row.BankDetailID,
			BankName:      row.BankName,
			AccountHolder: row.AccountHolder,
			AccountNumber: row.AccountNumber,
			IFSCCode:      row.IFSCCode,
			Amount:        row.Amount,
			Charge:        row.Charge,
			FinalAmount:   row.FinalAmount,
			OrderID:       row.OrderID,
			Status:        row.Status,
			TransactionID: row.TransactionID,
			Remark:        row.Remark,
			CreatedAt:     row.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    response,
	})
}

// POST /v1/admins/withdrawals/{id}/approve
func ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal ID"})
		return
	}

	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	adminID := adminIDFromToken(r)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var withdrawal models.Withdrawal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&withdrawal, id).Error; err != nil {
			return err
		}
		if withdrawal.Status != "Pending" {
			return errNotPending
		}

		now := time.Now()
		withdrawal.Status = "Approved"
		if req.TransactionID != "" {
			withdrawal.TransactionID = &req.TransactionID
		}
		withdrawal.ProcessedBy = adminID
		withdrawal.ProcessedAt = &now
		if err := tx.Save(&withdrawal).Error; err != nil {
			return err
		}

		return tx.Model(&models.Transaction{}).
			Where("order_id = ?", withdrawal.OrderID).
			Update("status", "Success").Error
	})
	if err != nil {
		writeWithdrawalError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Withdrawal approved"})
}

func writeWithdrawalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotPending):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Only pending withdrawals can be processed"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Withdrawal not found"})
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process withdrawal"})
	}
}

// POST /v1/admins/withdrawals/{id}/reject
//
// Rejection only flips statuses. Withdrawable balance is derived from
// approved and pending sums, so the reserved amount frees up on its own.
func RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal ID"})
		return
	}

	var req struct {
		Remark string `json:"remark"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	adminID := adminIDFromToken(r)

	var rejected models.Withdrawal
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var withdrawal models.Withdrawal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&withdrawal, id).Error; err != nil {
			return err
		}
		if withdrawal.Status != "Pending" {
			return errNotPending
		}

		now := time.Now()
		withdrawal.Status = "Rejected"
		if req.Remark != "" {
			withdrawal.Remark = &req.Remark
		}
		withdrawal.ProcessedBy = adminID
		withdrawal.ProcessedAt = &now
		if err := tx.Save(&withdrawal).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Transaction{}).
			Where("order_id = ?", withdrawal.OrderID).
			Updates(map[string]interface{}{
				"status":           "Failed",
				"transaction_type": models.TxTypeWithdrawalReject,
			}).Error; err != nil {
			return err
		}

		rejected = withdrawal
		return nil
	})
	if err != nil {
		writeWithdrawalError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Withdrawal rejected",
		Data: map[string]interface{}{
			"id":     rejected.ID,
			"status": rejected.Status,
		},
	})
}
