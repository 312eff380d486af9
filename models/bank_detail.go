package models

import "time"

type BankDetail struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	AccountHolder string    `gorm:"size:100;not null" json:"account_holder"`
	AccountNumber string    `gorm:"size:50;not null" json:"account_number"`
	IFSCCode      string    `gorm:"column:ifsc_code;size:20;not null" json:"ifsc_code"`
	BankName      string    `gorm:"size:100;not null" json:"bank_name"`
	UPIID         string    `gorm:"column:upi_id;size:100" json:"upi_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (BankDetail) TableName() string {
	return "bank_details"
}
