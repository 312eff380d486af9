package models

import "time"

type Withdrawal struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"not null;index" json:"user_id"`
	PaymentMethod string      `gorm:"type:enum('upi','bank');not null;default:'bank'" json:"payment_method"`
	BankDetailID  *uint       `gorm:"index" json:"bank_detail_id,omitempty"`
	UpiID         *string     `gorm:"type:varchar(100)" json:"upi_id,omitempty"`
	Amount        float64     `gorm:"type:decimal(15,2);not null" json:"amount"`
	Charge        float64     `gorm:"type:decimal(15,2);not null;default:0.00" json:"charge"`
	FinalAmount   float64     `gorm:"type:decimal(15,2);not null" json:"final_amount"`
	OrderID       string      `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Status        string      `gorm:"type:enum('Pending','Approved','Rejected');not null;default:'Pending'" json:"status"`
	TransactionID *string     `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	Remark        *string     `gorm:"type:varchar(255)" json:"remark,omitempty"`
	ProcessedBy   *int64      `gorm:"column:processed_by" json:"processed_by,omitempty"`
	ProcessedAt   *time.Time  `gorm:"column:processed_at" json:"processed_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	BankDetail    *BankDetail `gorm:"foreignKey:BankDetailID" json:"bank_detail,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
