package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/middleware"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"

	"gorm.io/gorm"
)

type BankDetailRequest struct {
	AccountHolder string `json:"account_holder" validate:"required,nameok"`
	AccountNumber string `json:"account_number" validate:"required"`
	IFSCCode      string `json:"ifsc_code" validate:"required"`
	BankName      string `json:"bank_name" validate:"required"`
	UPIID         string `json:"upi_id"`
}

// POST /v1/users/bank-details
// Creates or replaces the user's payout details.
func SaveBankDetailHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req BankDetailRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.AccountNumber = strings.TrimSpace(req.AccountNumber)
	req.IFSCCode = strings.ToUpper(strings.TrimSpace(req.IFSCCode))
	if len(req.AccountNumber) < 6 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Account number looks invalid"})
		return
	}

	db := database.DB

	var detail models.BankDetail
	err := db.Where("user_id = ?", uid).First(&detail).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	detail.UserID = uid
	detail.AccountHolder = strings.TrimSpace(req.AccountHolder)
	detail.AccountNumber = req.AccountNumber
	detail.IFSCCode = req.IFSCCode
	detail.BankName = strings.TrimSpace(req.BankName)
	detail.UPIID = strings.TrimSpace(req.UPIID)

	if err := db.Save(&detail).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save bank details"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Bank details saved", Data: detail})
}

// PUT /v1/users/upi
// Saves the default UPI handle used when a withdrawal request does
// not carry one.
func UpdateUpiHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req struct {
		UpiID string `json:"upi_id"`
	}
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	handle := strings.TrimSpace(req.UpiID)
	if handle == "" || !strings.Contains(handle, "@") {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "UPI ID looks invalid"})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", uid).
		Update("upi_id", handle).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save UPI ID"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "UPI ID saved", Data: map[string]interface{}{"upi_id": handle}})
}

// GET /v1/users/bank-details
func GetBankDetailHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var detail models.BankDetail
	if err := database.DB.Where("user_id = ?", uid).First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: nil})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: detail})
}
