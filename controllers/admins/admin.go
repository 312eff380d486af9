package admins

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"

	"gorm.io/gorm"
)

var errNotPending = errors.New("not_pending")

// adminIDFromToken extracts the admin ID from the Bearer token claims.
// Returns nil when no valid admin identity is present.
func adminIDFromToken(r *http.Request) *int64 {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	_, claims, err := utils.ValidateAccessToken(tokenString)
	if err != nil {
		return nil
	}
	var adminID int64
	if rawID, ok := claims["id"]; ok {
		switch v := rawID.(type) {
		case float64:
			adminID = int64(v)
		case int64:
			adminID = v
		case int:
			adminID = int64(v)
		case string:
			var n int64
			_, _ = fmt.Sscanf(v, "%d", &n)
			adminID = n
		}
	}
	if adminID == 0 {
		return nil
	}
	return &adminID
}

func writeNotFoundOrError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: notFoundMsg})
		return
	}
	utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
}

// GET /v1/admins/profile
func GetAdminProfile(w http.ResponseWriter, r *http.Request) {
	adminID := adminIDFromToken(r)
	if adminID == nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Unauthorized: Invalid token",
		})
		return
	}

	var admin models.Admin
	if err := database.DB.First(&admin, *adminID).Error; err != nil {
		writeNotFoundOrError(w, err, "Admin not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    admin,
	})
}

type updateAdminProfileRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// PUT /v1/admins/profile
func UpdateAdminProfile(w http.ResponseWriter, r *http.Request) {
	adminID := adminIDFromToken(r)
	if adminID == nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Unauthorized: Invalid token",
		})
		return
	}

	var req updateAdminProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	var admin models.Admin
	if err := database.DB.First(&admin, *adminID).Error; err != nil {
		writeNotFoundOrError(w, err, "Admin not found")
		return
	}

	updates := map[string]interface{}{}
	if strings.TrimSpace(req.Username) != "" {
		updates["username"] = strings.TrimSpace(req.Username)
	}
	if strings.TrimSpace(req.Name) != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.Email) != "" {
		updates["email"] = strings.TrimSpace(req.Email)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&admin).Updates(updates).Error; err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
				Success: false,
				Message: "Failed to update profile",
			})
			return
		}
		database.DB.First(&admin, *adminID)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile updated",
		Data:    admin,
	})
}

type updateAdminPasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	NewPassword          string `json:"new_password"`
	ConfirmationPassword string `json:"confirmation_password"`
}

// PUT /v1/admins/password
func UpdateAdminPassword(w http.ResponseWriter, r *http.Request) {
	adminID := adminIDFromToken(r)
	if adminID == nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Unauthorized: Invalid token",
		})
		return
	}

	var req updateAdminPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if strings.TrimSpace(req.CurrentPassword) == "" || strings.TrimSpace(req.NewPassword) == "" || strings.TrimSpace(req.ConfirmationPassword) == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "All password fields are required",
		})
		return
	}
	if req.NewPassword != req.ConfirmationPassword {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Password confirmation does not match",
		})
		return
	}

	var admin models.Admin
	if err := database.DB.First(&admin, *adminID).Error; err != nil {
		writeNotFoundOrError(w, err, "Admin not found")
		return
	}

	if !admin.ValidatePassword(req.CurrentPassword) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{
			Success: false,
			Message: "Current password is incorrect",
		})
		return
	}

	admin.Password = req.NewPassword
	if err := admin.HashPassword(); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to hash password",
		})
		return
	}
	if err := database.DB.Model(&admin).Update("password", admin.Password).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to save new password",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Password updated",
	})
}
