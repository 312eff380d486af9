package models

type Setting struct {
	ID             int     `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"size:100" json:"name"`
	Logo           string  `gorm:"size:255" json:"logo"`
	MinWithdraw    float64 `gorm:"type:decimal(15,2);default:100" json:"min_withdraw"`
	MaxWithdraw    float64 `gorm:"type:decimal(15,2);default:0" json:"max_withdraw"` // 0 = no cap
	WithdrawCharge float64 `gorm:"type:decimal(5,2);default:0" json:"withdraw_charge"`
	Maintenance    bool    `gorm:"default:false" json:"maintenance"`
	ClosedRegister bool    `gorm:"default:false" json:"closed_register"`
	LinkCS         string  `gorm:"size:255" json:"link_cs"`
	LinkGroup      string  `gorm:"size:255" json:"link_group"`
	UpiHandle      string  `gorm:"column:upi_handle;size:100" json:"upi_handle"`
	UpiPayee       string  `gorm:"column:upi_payee;size:100" json:"upi_payee"`
}

func (Setting) TableName() string {
	return "settings"
}
