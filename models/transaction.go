package models

import (
	"time"
)

// Transaction 消费记录模型
type Transaction struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	CompanyID   uint      `json:"company_id" gorm:"index;not null"`
	CategoryID  uint      `json:"category_id" gorm:"index;not null"`
	Item        string    `json:"item" gorm:"size:255;not null"`         // 购买内容
	PaymentType string    `json:"payment_type" gorm:"size:50;not null"`  // 支付方式
	Amount      float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Date        time.Time `json:"date" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
	Company     Company   `json:"-" gorm:"foreignKey:CompanyID"`
	Category    Category  `json:"-" gorm:"foreignKey:CategoryID"`
}

func (Transaction) TableName() string {
	return "transactions"
}
