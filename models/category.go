package models

import (
	"time"
)

// Category 消费类别模型，按用户隔离，(user_id, name) 唯一
// 唯一索引保证并发下 find-or-create 不会产生重复行
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_category_name"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_user_category_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

func (Category) TableName() string {
	return "categories"
}
