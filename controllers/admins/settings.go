package admins

import (
	"encoding/json"
	"net/http"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"
)

type SettingRequest struct {
	Name           string  `json:"name"`
	Logo           string  `json:"logo"`
	MinWithdraw    float64 `json:"min_withdraw"`
	MaxWithdraw    float64 `json:"max_withdraw"`
	WithdrawCharge float64 `json:"withdraw_charge"`
	Maintenance    bool    `json:"maintenance"`
	ClosedRegister bool    `json:"closed_register"`
	LinkCS         string  `json:"link_cs"`
	LinkGroup      string  `json:"link_group"`
	UpiHandle      string  `json:"upi_handle"`
	UpiPayee       string  `json:"upi_payee"`
}

func settingResponse(setting models.Setting) map[string]interface{} {
	return map[string]interface{}{
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
	}
}

// GET /v1/admins/settings
func GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	var setting models.Setting
	if err := db.First(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to load settings",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    settingResponse(setting),
	})
}

// PUT /v1/admins/settings
func UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if req.MinWithdraw < 0 || req.MaxWithdraw < 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Withdrawal limits cannot be negative",
		})
		return
	}
	if req.WithdrawCharge < 0 || req.WithdrawCharge > 100 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Withdrawal charge must be between 0 and 100 percent",
		})
		return
	}

	db := database.DB

	var setting models.Setting
	if err := db.First(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to load settings",
		})
		return
	}

	setting.Name = req.Name
	setting.Logo = req.Logo
	setting.MinWithdraw = req.MinWithdraw
	setting.MaxWithdraw = req.MaxWithdraw
	setting.WithdrawCharge = req.WithdrawCharge
	setting.Maintenance = req.Maintenance
	setting.ClosedRegister = req.ClosedRegister
	setting.LinkCS = req.LinkCS
	setting.LinkGroup = req.LinkGroup
	setting.UpiHandle = req.UpiHandle
	setting.UpiPayee = req.UpiPayee

	if err := db.Save(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to save settings",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Settings updated",
		Data:    settingResponse(setting),
	})
}
