package models

import "time"

// EarningCredit records one day's return for one investment. The
// unique index on (investment_id, accrual_date) is what makes the
// daily accrual idempotent.
type EarningCredit struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvestmentID uint      `gorm:"not null;uniqueIndex:idx_investment_day" json:"investment_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	AccrualDate  string    `gorm:"column:accrual_date;type:char(10);not null;uniqueIndex:idx_investment_day" json:"accrual_date"` // YYYY-MM-DD in site timezone
	Amount       float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt    time.Time `json:"created_at"`
}

func (EarningCredit) TableName() string {
	return "earning_credits"
}
