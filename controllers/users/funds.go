package users

import (
	"net/http"
	"strings"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/middleware"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"
)

type AddFundRequestBody struct {
	Amount    float64 `json:"amount"`
	UTRNumber string  `json:"utr_number" validate:"required"`
}

// POST /v1/users/funds
// The user pays out of band and submits the UTR; the request sits
// Pending until an admin approves it.
func CreateAddFundRequestHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req AddFundRequestBody
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.Amount <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be greater than zero"})
		return
	}
	req.UTRNumber = strings.TrimSpace(req.UTRNumber)
	if len(req.UTRNumber) < 6 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "UTR number looks invalid"})
		return
	}

	db := database.DB

	// Reject duplicate UTR submissions
	var count int64
	if err := db.Model(&models.AddFundRequest{}).
		Where("utr_number = ? AND status != ?", req.UTRNumber, "Rejected").
		Count(&count).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if count > 0 {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "This UTR number has already been submitted"})
		return
	}

	fund := models.AddFundRequest{
		UserID:    uid,
		Amount:    utils.RoundFloat(req.Amount, 2),
		UTRNumber: req.UTRNumber,
		OrderID:   utils.GenerateOrderID(uid),
		Status:    "Pending",
	}
	if err := db.Create(&fund).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to submit fund request"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Fund request submitted, waiting for approval",
		Data:    fund,
	})
}

// GET /v1/users/funds
func ListAddFundRequestsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var funds []models.AddFundRequest
	if err := database.DB.Where("user_id = ?", uid).
		Order("id DESC").
		Find(&funds).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load fund requests"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: funds})
}
