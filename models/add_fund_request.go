package models

import "time"

// AddFundRequest is a manual top-up. The user pays out of band and
// submits the UTR; an admin approves or rejects it.
type AddFundRequest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Amount      float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	UTRNumber   string     `gorm:"column:utr_number;size:50;not null" json:"utr_number"`
	OrderID     string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Status      string     `gorm:"type:enum('Pending','Approved','Rejected');not null;default:'Pending'" json:"status"`
	Remark      *string    `gorm:"type:varchar(255)" json:"remark,omitempty"`
	ProcessedBy *int64     `gorm:"column:processed_by" json:"processed_by,omitempty"`
	ProcessedAt *time.Time `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (AddFundRequest) TableName() string {
	return "add_fund_requests"
}
