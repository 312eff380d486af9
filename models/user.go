package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"size:20;index" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	ReffCode  string    `gorm:"size:20;uniqueIndex;not null" json:"reff_code"`
	ReffBy    *uint     `gorm:"column:reff_by" json:"reff_by"`
	Status    string    `gorm:"type:enum('Active','Inactive','Suspend');default:'Active'" json:"status"`
	Profile   *string   `gorm:"type:varchar(255);null" json:"profile,omitempty"`
	UpiID     *string   `gorm:"column:upi_id;type:varchar(100)" json:"upi_id,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
