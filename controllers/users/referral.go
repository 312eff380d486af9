package users

import (
	"net/http"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/services"
	"github.com/TheSiteshKumar/parlegg/utils"
)

func newReferralService() *services.ReferralService {
	db := database.DB
	return services.NewReferralService(db, services.NewWalletService(db))
}

// GET /v1/users/referral/code
func GetReferralCodeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var user models.User
	if err := database.DB.Select("reff_code").First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"reff_code": user.ReffCode},
	})
}

// GET /v1/users/referral/stats
func GetReferralStatsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	stats, err := newReferralService().Stats(uid)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load referral stats"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: stats})
}

// GET /v1/users/referral/list
func ListReferralsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	refs, err := newReferralService().Referrals(uid)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load referrals"})
		return
	}

	// join in referred user names for display
	items := make([]map[string]interface{}, 0, len(refs))
	for _, ref := range refs {
		var referred models.User
		name := ""
		if err := database.DB.Select("name").First(&referred, ref.ReferredID).Error; err == nil {
			name = referred.Name
		}
		items = append(items, map[string]interface{}{
			"id":            ref.ID,
			"referred_id":   ref.ReferredID,
			"referred_name": name,
			"status":        ref.Status,
			"converted_at":  ref.ConvertedAt,
			"created_at":    ref.CreatedAt,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: items})
}

// GET /v1/users/referral/rewards
func ListReferralRewardsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	rewards, err := newReferralService().Rewards(uid)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load rewards"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: rewards})
}
