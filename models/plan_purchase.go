package models

import "time"

// PlanPurchase is one row per successful plan buy. The purchase-limit
// check counts rows here, not investments, so a cancelled investment
// still consumes a slot.
type PlanPurchase struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:idx_user_plan" json:"user_id"`
	PlanLevel    string    `gorm:"column:plan_level;size:20;not null;index:idx_user_plan" json:"plan_level"`
	InvestmentID uint      `gorm:"not null;index" json:"investment_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (PlanPurchase) TableName() string {
	return "plan_purchases"
}
