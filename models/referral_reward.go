package models

import "time"

const (
	RewardTypePurchase  = "purchase"
	RewardTypeMilestone = "milestone"
)

// ReferralReward is one credited reward, either a first-purchase
// reward (unique per referral and recipient) or a milestone bonus (unique per
// referrer and milestone count). Milestone is NULL on purchase rows
// so MySQL lets a user hold many of them under idx_user_milestone.
type ReferralReward struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_milestone;uniqueIndex:idx_referral_user" json:"user_id"` // who received the reward
	ReferralID *uint     `gorm:"uniqueIndex:idx_referral_user" json:"referral_id,omitempty"`
	Type       string    `gorm:"type:enum('purchase','milestone');not null" json:"type"`
	PlanLevel  string    `gorm:"column:plan_level;size:20" json:"plan_level,omitempty"`
	Milestone  *int      `gorm:"column:milestone;uniqueIndex:idx_user_milestone" json:"milestone,omitempty"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ReferralReward) TableName() string {
	return "referral_rewards"
}
