package controllers

import (
	"net/http"
	"net/url"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"
)

// upiPayString builds the upi://pay deep link clients render as a QR
// code for manual transfers.
func upiPayString(handle, payee string) string {
	if handle == "" {
		return ""
	}
	q := url.Values{}
	q.Set("pa", handle)
	if payee != "" {
		q.Set("pn", payee)
	}
	q.Set("cu", "INR")
	return "upi://pay?" + q.Encode()
}

func InfoPublicHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var setting models.Setting
	if err := db.Model(&models.Setting{}).
		Select("name, logo, min_withdraw, max_withdraw, withdraw_charge, maintenance, closed_register, link_cs, link_group, upi_handle, upi_payee").
		Take(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to load application info",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"name":            setting.Name,
			"logo":            setting.Logo,
			"min_withdraw":    setting.MinWithdraw,
			"max_withdraw":    setting.MaxWithdraw,
			"withdraw_charge": setting.WithdrawCharge,
			"maintenance":     setting.Maintenance,
			"closed_register": setting.ClosedRegister,
			"link_cs":         setting.LinkCS,
			"link_group":      setting.LinkGroup,
			"upi_handle":      setting.UpiHandle,
			"upi_payee":       setting.UpiPayee,
			"upi_pay_url":     upiPayString(setting.UpiHandle, setting.UpiPayee),
		},
	})
}

// HealthHandler reports process and database health.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	dbOK := false
	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil && sqlDB.Ping() == nil {
			dbOK = true
		}
	}
	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}
	utils.WriteJSON(w, status, utils.APIResponse{
		Success: dbOK,
		Message: "health",
		Data:    map[string]interface{}{"database": dbOK},
	})
}
