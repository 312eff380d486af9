package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/middleware"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/services"
	"github.com/TheSiteshKumar/parlegg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,nameok"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone"`
	Password             string `json:"password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	ReferralCode         string `json:"referral_code"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var appSetting models.Setting
	if err := database.DB.Model(&models.Setting{}).Select("closed_register, maintenance, name").Take(&appSetting).Error; err == nil {
		if appSetting.ClosedRegister {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{
				Success: false,
				Message: "Registration is currently closed. Please try again later.",
				Data:    map[string]interface{}{"closed_register": true, "application": appSetting.Name},
			})
			return
		}
		if appSetting.Maintenance {
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.APIResponse{
				Success: false,
				Message: "The application is under maintenance. Please try again later.",
				Data:    map[string]interface{}{"maintenance": true, "application": appSetting.Name},
			})
			return
		}
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.ReferralCode = strings.ToUpper(strings.TrimSpace(req.ReferralCode))

	db := database.DB

	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email is already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[register] DB error checking email: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Referral handling: the code is optional but must resolve when given
	var reffBy *uint
	if req.ReferralCode != "" {
		var refOwner models.User
		if err := db.Where("reff_code = ?", req.ReferralCode).First(&refOwner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid referral code"})
				return
			}
			log.Printf("[register] DB error fetching referral %s: %v", req.ReferralCode, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		reffBy = &refOwner.ID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	code, err := generateUniqueReffCode(db, 8)
	if err != nil {
		log.Printf("[register] generateUniqueReffCode error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	newUser := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashed),
		ReffCode: code,
		ReffBy:   reffBy,
		Status:   "Active",
	}

	wallets := services.NewWalletService(db)
	referrals := services.NewReferralService(db, wallets)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		if _, err := wallets.GetOrCreate(tx, newUser.ID); err != nil {
			return err
		}
		if reffBy != nil {
			if err := referrals.Link(tx, *reffBy, newUser.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[register] DB create user error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Registration failed, please try again"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(newUser.ID, "user")
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to issue token"})
		return
	}
	refreshJTI, err := utils.GenerateRefreshToken(newUser.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store refresh token"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful, welcome!",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"access_expire": time.Now().Add(15 * time.Minute).UTC().Format(time.RFC3339),
			"refresh_token": refreshJTI,
			"user": map[string]interface{}{
				"id":        newUser.ID,
				"name":      newUser.Name,
				"email":     newUser.Email,
				"phone":     newUser.Phone,
				"reff_code": newUser.ReffCode,
			},
		},
	})
}

func generateUniqueReffCode(db *gorm.DB, length int) (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAttempts := 100

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomString(alphabet, length)
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.User{}).Where("reff_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique referral code after %d attempts", maxAttempts)
}

func randomString(alphabet string, length int) (string, error) {
	buf := make([]byte, length)
	out := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := 0; i < length; i++ {
		out[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(out), nil
}
