package models

import (
	"time"
)

// User 用户模型，通过 Google 登录自动创建（按邮箱 upsert）
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Name      string    `json:"name" gorm:"size:100"`
	GoogleID  string    `json:"-" gorm:"size:64;index"` // Google 账号 sub
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
