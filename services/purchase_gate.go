package services

import (
	"fmt"

	"github.com/TheSiteshKumar/parlegg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseLimitError is returned when a user has already bought a plan
// as many times as its limit allows. Callers match it with errors.As
// and surface the counts to the client.
type PurchaseLimitError struct {
	PlanName     string
	CurrentCount int
	MaxLimit     int
}

func (e *PurchaseLimitError) Error() string {
	return fmt.Sprintf("purchase limit reached for %s (%d/%d)", e.PlanName, e.CurrentCount, e.MaxLimit)
}

// PurchaseGate enforces per-plan purchase limits. The check counts
// with FOR UPDATE and must run inside the same transaction as the
// investment insert, after the caller has locked the user's wallet
// row, so two concurrent buys serialize instead of both passing a
// stale count.
type PurchaseGate struct {
	db *gorm.DB
}

func NewPurchaseGate(db *gorm.DB) *PurchaseGate {
	return &PurchaseGate{db: db}
}

// Check returns a *PurchaseLimitError when the user is at the plan's
// limit. A limit of zero means unlimited. The count is a locking read
// so a repeatable-read transaction sees committed purchases instead of
// its snapshot.
func (g *PurchaseGate) Check(tx *gorm.DB, userID uint, plan *models.Plan) error {
	if plan.PurchaseLimit == 0 {
		return nil
	}
	if tx == nil {
		tx = g.db
	}
	var count int64
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&models.PlanPurchase{}).
		Where("user_id = ? AND plan_level = ?", userID, plan.Level).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count >= int64(plan.PurchaseLimit) {
		return &PurchaseLimitError{
			PlanName:     plan.Name,
			CurrentCount: int(count),
			MaxLimit:     plan.PurchaseLimit,
		}
	}
	return nil
}

// RecordPurchase appends one purchase row. Call it in the same
// transaction that created the investment.
func (g *PurchaseGate) RecordPurchase(tx *gorm.DB, userID uint, plan *models.Plan, investmentID uint) error {
	if tx == nil {
		tx = g.db
	}
	return tx.Create(&models.PlanPurchase{
		UserID:       userID,
		PlanLevel:    plan.Level,
		InvestmentID: investmentID,
	}).Error
}

// Counts returns the purchase count per plan level for one user.
func (g *PurchaseGate) Counts(userID uint) (map[string]int64, error) {
	type row struct {
		PlanLevel string
		N         int64
	}
	var rows []row
	err := g.db.Model(&models.PlanPurchase{}).
		Select("plan_level, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("plan_level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.PlanLevel] = r.N
	}
	return counts, nil
}

// ResetCount wipes a user's purchase history for one plan. Admin only.
func (g *PurchaseGate) ResetCount(userID uint, planLevel string) error {
	return g.db.Where("user_id = ? AND plan_level = ?", userID, planLevel).
		Delete(&models.PlanPurchase{}).Error
}
