package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/TheSiteshKumar/parlegg/database"
	"github.com/TheSiteshKumar/parlegg/models"
	"github.com/TheSiteshKumar/parlegg/services"
	"github.com/TheSiteshKumar/parlegg/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type CreateInvestmentRequest struct {
	PlanID uint `json:"plan_id"`
}

// GET /v1/users/investments
func ListInvestmentsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	db := database.DB

	var investments []models.Investment
	if err := db.
		Where("user_id = ?", uid).
		Order("id DESC").
		Find(&investments).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load investments"})
		return
	}

	calc := services.NewEarningsCalculator(utils.SiteLocation())
	now := time.Now()

	items := make([]map[string]interface{}, 0, len(investments))
	for _, inv := range investments {
		items = append(items, map[string]interface{}{
			"id":             inv.ID,
			"plan_id":        inv.PlanID,
			"plan_level":     inv.PlanLevel,
			"plan_name":      inv.PlanName,
			"plan_image":     inv.PlanImage,
			"amount":         inv.Amount,
			"daily_returns":  inv.DailyReturns,
			"duration":       inv.Duration,
			"total_earned":   inv.TotalEarned,
			"earned_to_date": calc.EarnedToDate(inv.DailyReturns, inv.StartDate, inv.Duration, now),
			"remaining_days": calc.RemainingDays(inv.StartDate, inv.Duration, now),
			"progress":       calc.Progress(inv.StartDate, inv.Duration, now),
			"start_date":     inv.StartDate,
			"end_date":       inv.EndDate,
			"order_id":       inv.OrderID,
			"status":         inv.Status,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"investments": items,
			"daily_rate":  calc.DailyRate(investments, now),
		},
	})
}

// GET /v1/users/investments/{id}
func GetInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid investment ID"})
		return
	}

	var inv models.Investment
	if err := database.DB.
		Where("id = ? AND user_id = ?", id, uid).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Investment not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load investment"})
		return
	}

	calc := services.NewEarningsCalculator(utils.SiteLocation())
	now := time.Now()

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"id":             inv.ID,
			"plan_id":        inv.PlanID,
			"plan_level":     inv.PlanLevel,
			"plan_name":      inv.PlanName,
			"plan_image":     inv.PlanImage,
			"amount":         inv.Amount,
			"daily_returns":  inv.DailyReturns,
			"duration":       inv.Duration,
			"total_earned":   inv.TotalEarned,
			"earned_to_date": calc.EarnedToDate(inv.DailyReturns, inv.StartDate, inv.Duration, now),
			"remaining_days": calc.RemainingDays(inv.StartDate, inv.Duration, now),
			"progress":       calc.Progress(inv.StartDate, inv.Duration, now),
			"start_date":     inv.StartDate,
			"end_date":       inv.EndDate,
			"order_id":       inv.OrderID,
			"status":         inv.Status,
		},
	})
}

// GET /v1/users/plans
// The catalog plus this user's purchase counts, so clients can gray
// out plans at their limit.
func ListPlansWithCountsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	db := database.DB

	var plans []models.Plan
	if err := db.Where("status = ?", "Active").Order("amount ASC").Find(&plans).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load plans"})
		return
	}

	counts, err := services.NewPurchaseGate(db).Counts(uid)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load purchase history"})
		return
	}

	items := make([]map[string]interface{}, 0, len(plans))
	for _, p := range plans {
		remaining := -1 // unlimited
		if p.PurchaseLimit > 0 {
			remaining = p.PurchaseLimit - int(counts[p.Level])
			if remaining < 0 {
				remaining = 0
			}
		}
		items = append(items, map[string]interface{}{
			"plan":            p,
			"purchase_count":  counts[p.Level],
			"remaining_slots": remaining,
			"can_purchase":    p.PurchaseLimit == 0 || counts[p.Level] < int64(p.PurchaseLimit),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: items})
}

// POST /v1/users/investments
func CreateInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Not valid JSON"})
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var plan models.Plan
	if err := db.Where("id = ? AND status = 'Active'", req.PlanID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Plan not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	wallets := services.NewWalletService(db)
	gate := services.NewPurchaseGate(db)
	referrals := services.NewReferralService(db, wallets)
	calc := services.NewEarningsCalculator(utils.SiteLocation())

	var investment models.Investment
	err := db.Transaction(func(tx *gorm.DB) error {
		// DebitFunds locks the wallet row first; concurrent buys
		// serialize on it before the limit count runs.
		if err := wallets.DebitFunds(tx, uid, plan.Amount); err != nil {
			return err
		}
		if err := gate.Check(tx, uid, &plan); err != nil {
			return err
		}

		start := calc.DateOf(time.Now())
		investment = models.Investment{
			UserID:       uid,
			PlanID:       plan.ID,
			PlanLevel:    plan.Level,
			PlanName:     plan.Name,
			PlanImage:    plan.Image,
			Amount:       plan.Amount,
			DailyReturns: plan.DailyReturns,
			Duration:     plan.Duration,
			StartDate:    start,
			EndDate:      start.AddDate(0, 0, plan.Duration),
			OrderID:      utils.GenerateOrderID(uid),
			Status:       "Running",
		}
		if err := tx.Create(&investment).Error; err != nil {
			return err
		}
		if err := gate.RecordPurchase(tx, uid, &plan, investment.ID); err != nil {
			return err
		}

		message := fmt.Sprintf("Purchased %s plan", plan.Name)
		if err := tx.Create(&models.Transaction{
			UserID:          uid,
			Amount:          plan.Amount,
			OrderID:         investment.OrderID,
			TransactionFlow: "debit",
			TransactionType: models.TxTypeInvestment,
			Message:         &message,
			Status:          "Success",
		}).Error; err != nil {
			return err
		}

		return referrals.ProcessPlanPurchase(tx, uid, user.Name, &plan)
	})
	if err != nil {
		var limitErr *services.PurchaseLimitError
		if errors.As(err, &limitErr) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
				Success: false,
				Message: "Purchase limit reached for this plan.",
				Data: map[string]interface{}{
					"plan_name":     limitErr.PlanName,
					"current_count": limitErr.CurrentCount,
					"max_limit":     limitErr.MaxLimit,
				},
			})
			return
		}
		if errors.Is(err, services.ErrInsufficientBalance) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient balance, please add funds first"})
			return
		}
		log.Printf("[investment] create failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Investment created successfully",
		Data:    investment,
	})
}
