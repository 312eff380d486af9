package models

import "time"

// WalletBalance keeps the gross credit accumulators for one user.
// InvestmentReturns and ReferralEarnings only ever grow; withdrawals
// live in their own table and are subtracted at read time. TotalAdded
// and TotalUsed are lifetime sums over the purchase wallet, so
// fund_balance must always equal total_added - total_used.
type WalletBalance struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	FundBalance       float64   `gorm:"column:fund_balance;type:decimal(15,2);not null;default:0.00" json:"fund_balance"`
	TotalAdded        float64   `gorm:"column:total_added;type:decimal(15,2);not null;default:0.00" json:"total_added"`
	TotalUsed         float64   `gorm:"column:total_used;type:decimal(15,2);not null;default:0.00" json:"total_used"`
	InvestmentReturns float64   `gorm:"column:investment_returns;type:decimal(15,2);not null;default:0.00" json:"investment_returns"`
	ReferralEarnings  float64   `gorm:"column:referral_earnings;type:decimal(15,2);not null;default:0.00" json:"referral_earnings"`
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
}

func (WalletBalance) TableName() string {
	return "wallet_balances"
}

// Earnings is the gross lifetime earnings, before any withdrawal.
func (w *WalletBalance) Earnings() float64 {
	return w.InvestmentReturns + w.ReferralEarnings
}
