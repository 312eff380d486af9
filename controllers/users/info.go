package users

import (
	"errors"
	"net/http"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/services"
	"github.com/TheSiteshKumar/parlegg/utils"

	"gorm.io/gorm"
)

// GET /v1/users/me
func InfoHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var setting models.Setting
	err := db.Model(&models.Setting{}).
		Select("name, logo, min_withdraw, max_withdraw, withdraw_charge, link_cs, link_group").
		Take(&setting).Error
	healthy := true
	if err != nil {
		healthy = false
	}

	summary, err := services.NewWalletService(db).Summary(user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"id":            user.ID,
				"name":          user.Name,
				"email":         user.Email,
				"phone":         user.Phone,
				"referral_code": user.ReffCode,
				"status":        user.Status,
				"upi_id":        user.UpiID,
				"profile":       profileURL(user.Profile),
				"created_at":    user.CreatedAt,
			},
			"wallet": summary,
			"application": map[string]interface{}{
				"name":            setting.Name,
				"logo":            setting.Logo,
				"min_withdraw":    setting.MinWithdraw,
				"max_withdraw":    setting.MaxWithdraw,
				"withdraw_charge": setting.WithdrawCharge,
				"link_cs":         setting.LinkCS,
				"link_group":      setting.LinkGroup,
				"healthy":         healthy,
			},
		},
	})
}
