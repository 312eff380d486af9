package models

import "time"

// Investment is one plan purchase. The plan's money and display
// fields are copied at purchase time, so later catalog edits do not
// rewrite existing investments.
type Investment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	PlanID       uint       `gorm:"not null;index" json:"plan_id"`
	PlanLevel    string     `gorm:"column:plan_level;size:20;not null;index" json:"plan_level"`
	PlanName     string     `gorm:"column:plan_name;size:100;not null" json:"plan_name"`
	PlanImage    string     `gorm:"column:plan_image;size:255" json:"plan_image"`
	Amount       float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	DailyReturns float64    `gorm:"type:decimal(15,2);not null" json:"daily_returns"`
	Duration     int        `gorm:"not null" json:"duration"`
	TotalEarned  float64    `gorm:"column:total_earned;type:decimal(15,2);not null;default:0.00" json:"total_earned"`
	DaysAccrued  int        `gorm:"column:days_accrued;not null;default:0" json:"days_accrued"`
	LastAccrueAt *time.Time `gorm:"column:last_accrue_at" json:"last_accrue_at,omitempty"`
	StartDate    time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate      time.Time  `gorm:"column:end_date;not null" json:"end_date"`
	OrderID      string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Status       string     `gorm:"type:enum('Running','Completed','Cancelled');default:'Running'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Plan *Plan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (Investment) TableName() string {
	return "investments"
}
