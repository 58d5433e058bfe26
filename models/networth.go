package models

import (
	"time"
)

// NetWorth 净资产账户快照行
// 同一用户同一日期的多行构成一份快照，date 统一写入 UTC 零点
type NetWorth struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index:idx_networth_user_date"`
	AccountName string    `json:"account_name" gorm:"size:100;not null"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Date        time.Time `json:"date" gorm:"not null;index:idx_networth_user_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
}

func (NetWorth) TableName() string {
	return "net_worths"
}
