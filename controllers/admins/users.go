package admins

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/services"
	"github.com/TheSiteshKumar/parlegg/utils"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ReffCode  string `json:"reff_code"`
	ReffBy    uint   `json:"reff_by"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`

	Wallet *services.WalletSummary `json:"wallet,omitempty"`
}

func userResponse(user models.User) UserResponse {
	reffBy := uint(0)
	if user.ReffBy != nil {
		reffBy = *user.ReffBy
	}
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		ReffCode:  user.ReffCode,
		ReffBy:    reffBy,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// GET /v1/admins/users
func GetUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	status := r.URL.Query().Get("status")
	search := r.URL.Query().Get("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.User{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		search = "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR reff_code LIKE ?", search, search, search, search)
	}

	var users []models.User
	query.Offset(offset).Limit(limit).Order("id DESC").Find(&users)

	response := make([]UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, userResponse(user))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    response,
	})
}

// GET /v1/admins/users/{id}
func GetUserDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid user ID",
		})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		writeNotFoundOrError(w, err, "User not found")
		return
	}

	response := userResponse(user)
	if summary, err := services.NewWalletService(database.DB).Summary(user.ID); err == nil {
		response.Wallet = summary
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    response,
	})
}

type UpdateUserRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// PUT /v1/admins/users/{id}
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid user ID",
		})
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		writeNotFoundOrError(w, err, "User not found")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	switch req.Status {
	case "", user.Status:
	case "Active", "Inactive", "Suspend":
		user.Status = req.Status
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid status",
		})
		return
	}

	if err := database.DB.Save(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to update user",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "User updated",
		Data:    userResponse(user),
	})
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// PUT /v1/admins/users/{id}/password
func UpdateUserPassword(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid user ID",
		})
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if len(req.Password) < 6 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Password must be at least 6 characters",
		})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		writeNotFoundOrError(w, err, "User not found")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to update password",
		})
		return
	}

	user.Password = string(hashedPassword)
	if err := database.DB.Save(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to update password",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "User password updated",
	})
}

// POST /v1/admins/users/{id}/purchase-limit/reset
func ResetPurchaseLimit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Invalid user ID",
		})
		return
	}

	var body struct {
		PlanLevel string `json:"plan_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.PlanLevel) == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "plan_level is required",
		})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		writeNotFoundOrError(w, err, "User not found")
		return
	}

	gate := services.NewPurchaseGate(database.DB)
	if err := gate.ResetCount(user.ID, body.PlanLevel); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
			Success: false,
			Message: "Failed to reset purchase limit",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Purchase limit reset",
	})
}
