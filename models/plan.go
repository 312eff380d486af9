package models

import "time"

type Plan struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Level         string    `gorm:"column:level;size:20;uniqueIndex;not null" json:"level"`
	Name          string    `gorm:"column:name;size:100;not null" json:"name"`
	Amount        float64   `gorm:"column:amount;type:decimal(15,2);not null" json:"amount"`
	DailyReturns  float64   `gorm:"column:daily_returns;type:decimal(15,2);not null" json:"daily_returns"`
	Duration      int       `gorm:"column:duration;not null" json:"duration"`
	TotalReturns  float64   `gorm:"column:total_returns;type:decimal(15,2);not null" json:"total_returns"`
	PurchaseLimit int       `gorm:"column:purchase_limit;default:0" json:"purchase_limit"` // 0 = unlimited
	Image         string    `gorm:"column:image;size:255" json:"image"`
	Status        string    `gorm:"column:status;type:enum('Active','Inactive');default:'Active'" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}
