package models

import "time"

// Referral links a referred user back to their referrer. One row per
// referred user; status flips to plan_purchased exactly once, on the
// first plan buy. The plan and reward columns are snapshots stamped at
// conversion time, so later changes to the reward table do not rewrite
// history.
type Referral struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ReferrerID     uint       `gorm:"not null;index" json:"referrer_id"`
	ReferredID     uint       `gorm:"not null;uniqueIndex" json:"referred_id"`
	Status         string     `gorm:"type:enum('pending','plan_purchased');not null;default:'pending'" json:"status"`
	PlanPurchased  *string    `gorm:"column:plan_purchased;type:varchar(20)" json:"plan_purchased,omitempty"`
	PlanAmount     *float64   `gorm:"column:plan_amount;type:decimal(15,2)" json:"plan_amount,omitempty"`
	ReferrerReward *float64   `gorm:"column:referrer_reward;type:decimal(15,2)" json:"referrer_reward,omitempty"`
	RefereeReward  *float64   `gorm:"column:referee_reward;type:decimal(15,2)" json:"referee_reward,omitempty"`
	ConvertedAt    *time.Time `gorm:"column:converted_at" json:"converted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
