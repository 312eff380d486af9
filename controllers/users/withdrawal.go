package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/services"
	"github.com/TheSiteshKumar/parlegg/utils"

	"gorm.io/gorm"
)

type WithdrawalRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	UpiID         string  `json:"upi_id"`
	BankDetailID  uint    `json:"bank_detail_id"`
}

// CalculateWithdrawalCharge returns the fee and the amount actually
// paid out after the percentage charge. The full amount is debited
// from earnings; the fee only changes what the recipient nets.
func CalculateWithdrawalCharge(amount, chargePercent float64) (charge, finalAmount float64) {
	charge = utils.RoundFloat(amount*chargePercent/100, 2)
	finalAmount = utils.RoundFloat(amount-charge, 2)
	return charge, finalAmount
}

// MaskAccountNumber hides the middle of an account number for display.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) <= 6 {
		return accountNumber
	}
	return accountNumber[:4] + "****" + accountNumber[len(accountNumber)-4:]
}

// POST /v1/users/withdrawals
func CreateWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Not valid JSON"})
		return
	}

	db := database.DB

	var setting models.Setting
	minWithdraw := 100.0
	chargePercent := 0.0
	maxWithdraw := 0.0
	if err := db.Model(&models.Setting{}).
		Select("min_withdraw, max_withdraw, withdraw_charge").
		Take(&setting).Error; err == nil {
		if setting.MinWithdraw > 0 {
			minWithdraw = setting.MinWithdraw
		}
		maxWithdraw = setting.MaxWithdraw
		chargePercent = setting.WithdrawCharge
	}

	if req.Amount < minWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: fmt.Sprintf("Minimum withdrawal is %.0f", minWithdraw),
		})
		return
	}
	if maxWithdraw > 0 && req.Amount > maxWithdraw {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: fmt.Sprintf("Maximum withdrawal is %.0f", maxWithdraw),
		})
		return
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = "bank"
	}

	var bank models.BankDetail
	var bankDetailID *uint
	var upiID *string
	var destination string

	switch method {
	case "upi":
		handle := strings.TrimSpace(req.UpiID)
		if handle == "" {
			// Fall back to the handle saved on the profile.
			var user models.User
			if err := db.Select("upi_id").First(&user, uid).Error; err == nil && user.UpiID != nil {
				handle = *user.UpiID
			}
		}
		if handle == "" {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "UPI ID is required"})
			return
		}
		upiID = &handle
		destination = fmt.Sprintf("UPI %s", handle)
	case "bank":
		query := db.Where("user_id = ?", uid)
		if req.BankDetailID != 0 {
			query = query.Where("id = ?", req.BankDetailID)
		}
		if err := query.First(&bank).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Bank details not found, please add them first"})
				return
			}
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		bankDetailID = &bank.ID
		destination = fmt.Sprintf("%s %s", bank.BankName, MaskAccountNumber(bank.AccountNumber))
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Payment method must be upi or bank"})
		return
	}

	wallets := services.NewWalletService(db)

	var withdrawal models.Withdrawal
	err := db.Transaction(func(tx *gorm.DB) error {
		// Lock the wallet row so two concurrent requests cannot both
		// pass the balance check.
		if _, err := wallets.GetOrCreate(tx, uid); err != nil {
			return err
		}
		withdrawable, err := wallets.WithdrawableBalance(tx, uid)
		if err != nil {
			return err
		}
		if req.Amount > withdrawable {
			return services.ErrInsufficientBalance
		}

		charge, finalAmount := CalculateWithdrawalCharge(req.Amount, chargePercent)
		withdrawal = models.Withdrawal{
			UserID:        uid,
			PaymentMethod: method,
			BankDetailID:  bankDetailID,
			UpiID:         upiID,
			Amount:        utils.RoundFloat(req.Amount, 2),
			Charge:        charge,
			FinalAmount:   finalAmount,
			OrderID:       utils.GenerateOrderID(uid),
			Status:        "Pending",
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return err
		}

		message := fmt.Sprintf("Withdrawal to %s", destination)
		return tx.Create(&models.Transaction{
			UserID:          uid,
			Amount:          withdrawal.Amount,
			Charge:          charge,
			OrderID:         withdrawal.OrderID,
			TransactionFlow: "credit",
			TransactionType: models.TxTypeWithdrawal,
			Message:         &message,
			Status:          "Pending",
		}).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrInsufficientBalance) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient withdrawable balance"})
			return
		}
		log.Printf("[withdrawal] create failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	data := map[string]interface{}{
		"id":             withdrawal.ID,
		"amount":         withdrawal.Amount,
		"charge":         withdrawal.Charge,
		"final_amount":   withdrawal.FinalAmount,
		"order_id":       withdrawal.OrderID,
		"status":         withdrawal.Status,
		"payment_method": withdrawal.PaymentMethod,
	}
	if upiID != nil {
		data["upi_id"] = *upiID
	}
	if bankDetailID != nil {
		data["bank"] = map[string]interface{}{
			"bank_name":      bank.BankName,
			"account_number": MaskAccountNumber(bank.AccountNumber),
		}
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted",
		Data:    data,
	})
}

// GET /v1/users/withdrawals
func ListWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var withdrawals []models.Withdrawal
	if err := database.DB.Preload("BankDetail").
		Where("user_id = ?", uid).
		Order("id DESC").
		Find(&withdrawals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load withdrawals"})
		return
	}

	items := make([]map[string]interface{}, 0, len(withdrawals))
	for _, wd := range withdrawals {
		item := map[string]interface{}{
			"id":             wd.ID,
			"amount":         wd.Amount,
			"charge":         wd.Charge,
			"final_amount":   wd.FinalAmount,
			"order_id":       wd.OrderID,
			"status":         wd.Status,
			"payment_method": wd.PaymentMethod,
			"remark":         wd.Remark,
			"transaction_id": wd.TransactionID,
			"created_at":     wd.CreatedAt,
			"processed_at":   wd.ProcessedAt,
		}
		if wd.UpiID != nil {
			item["upi_id"] = *wd.UpiID
		}
		if wd.BankDetail != nil {
			item["bank"] = map[string]interface{}{
				"bank_name":      wd.BankDetail.BankName,
				"account_number": MaskAccountNumber(wd.BankDetail.AccountNumber),
			}
		}
		items = append(items, item)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: items})
}
