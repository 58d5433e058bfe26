package models

import (
	"time"
)

// Income 收入记录模型
type Income struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Amount    float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Source    string    `json:"source" gorm:"size:100;not null"` // 收入来源
	Date      time.Time `json:"date" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

func (Income) TableName() string {
	return "incomes"
}
