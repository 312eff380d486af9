package admins

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/utils"

	"github.com/gorilla/mux"
)

// GET /v1/admins/plans
func ListPlansHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB
	var plans []models.Plan
	if err := db.Order("amount ASC").Find(&plans).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load plans"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"plans": plans,
		},
	})
}

// GET /v1/admins/plans/{id}
func GetPlanHandler(w http.ResponseWriter, r *http.Request) {
	plan, ok := planFromPath(w, r)
	if !ok {
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    plan,
	})
}

// POST /v1/admins/plans
func CreatePlanHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level         string  `json:"level"`
		Name          string  `json:"name"`
		Amount        float64 `json:"amount"`
		DailyReturns  float64 `json:"daily_returns"`
		Duration      int     `json:"duration"`
		PurchaseLimit int     `json:"purchase_limit"`
		Status        string  `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	req.Level = strings.TrimSpace(req.Level)
	if req.Level == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Plan level is required"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Plan name is required"})
		return
	}
	if req.Amount <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be greater than zero"})
		return
	}
	if req.DailyReturns <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Daily returns must be greater than zero"})
		return
	}
	if req.Duration <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Duration must be greater than zero"})
		return
	}
	if req.PurchaseLimit < 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Purchase limit cannot be negative"})
		return
	}
	if req.Status != "Active" && req.Status != "Inactive" {
		req.Status = "Active"
	}

	db := database.DB

	var count int64
	db.Model(&models.Plan{}).Where("level = ?", req.Level).Count(&count)
	if count > 0 {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "A plan with this level already exists"})
		return
	}

	plan := models.Plan{
		Level:         req.Level,
		Name:          req.Name,
		Amount:        req.Amount,
		DailyReturns:  req.DailyReturns,
		Duration:      req.Duration,
		TotalReturns:  utils.RoundFloat(req.DailyReturns*float64(req.Duration), 2),
		PurchaseLimit: req.PurchaseLimit,
		Status:        req.Status,
	}

	if err := db.Create(&plan).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create plan"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Plan created",
		Data:    plan,
	})
}

// PUT /v1/admins/plans/{id}
func UpdatePlanHandler(w http.ResponseWriter, r *http.Request) {
	plan, ok := planFromPath(w, r)
	if !ok {
		return
	}

	var req struct {
		Name          string   `json:"name"`
		Amount        *float64 `json:"amount"`
		DailyReturns  *float64 `json:"daily_returns"`
		Duration      *int     `json:"duration"`
		PurchaseLimit *int     `json:"purchase_limit"`
		Status        string   `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON"})
		return
	}

	db := database.DB
	updates := map[string]interface{}{}

	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Amount != nil && *req.Amount > 0 {
		updates["amount"] = *req.Amount
	}
	if req.DailyReturns != nil && *req.DailyReturns > 0 {
		updates["daily_returns"] = *req.DailyReturns
	}
	if req.Duration != nil && *req.Duration > 0 {
		updates["duration"] = *req.Duration
	}
	if req.PurchaseLimit != nil && *req.PurchaseLimit >= 0 {
		updates["purchase_limit"] = *req.PurchaseLimit
	}
	if req.Status == "Active" || req.Status == "Inactive" {
		updates["status"] = req.Status
	}

	// Keep the precomputed total in step with rate and duration
	daily := plan.DailyReturns
	duration := plan.Duration
	if req.DailyReturns != nil && *req.DailyReturns > 0 {
		daily = *req.DailyReturns
	}
	if req.Duration != nil && *req.Duration > 0 {
		duration = *req.Duration
	}
	if daily != plan.DailyReturns || duration != plan.Duration {
		updates["total_returns"] = utils.RoundFloat(daily*float64(duration), 2)
	}

	if len(updates) > 0 {
		if err := db.Model(&plan).Updates(updates).Error; err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update plan"})
			return
		}
	}

	db.First(&plan, plan.ID)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Plan updated",
		Data:    plan,
	})
}

// PUT /v1/admins/plans/{id}/image
func UploadPlanImageHandler(w http.ResponseWriter, r *http.Request) {
	plan, ok := planFromPath(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(6 << 20); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid form data"})
		return
	}

	file, handler, err := r.FormFile("image")
	if err != nil || handler == nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Image file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Image must be JPG/PNG/WEBP"})
		return
	}
	if handler.Size > 5<<20 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Image must be 5MB or smaller"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read image"})
		return
	}

	if plan.Image != "" {
		_ = utils.DeleteFromS3(plan.Image)
	}

	imgName := "plan_" + plan.Level + "_" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
	if err := utils.UploadToS3(imgName, bytes.NewReader(data), int64(len(data))); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to upload image"})
		return
	}

	if err := database.DB.Model(&plan).Update("image", imgName).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save image"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Plan image updated",
		Data: map[string]interface{}{
			"image": imgName,
		},
	})
}

// DELETE /v1/admins/plans/{id}
func DeletePlanHandler(w http.ResponseWriter, r *http.Request) {
	plan, ok := planFromPath(w, r)
	if !ok {
		return
	}

	db := database.DB

	var count int64
	if err := db.Model(&models.Investment{}).Where("plan_id = ?", plan.ID).Count(&count).Error; err == nil && count > 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Cannot delete a plan with existing investments"})
		return
	}

	if err := db.Delete(&plan).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to delete plan"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Plan deleted",
	})
}

func planFromPath(w http.ResponseWriter, r *http.Request) (models.Plan, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil || id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid plan ID"})
		return models.Plan{}, false
	}

	var plan models.Plan
	if err := database.DB.First(&plan, uint(id)).Error; err != nil {
		writeNotFoundOrError(w, err, "Plan not found")
		return models.Plan{}, false
	}
	return plan, true
}
