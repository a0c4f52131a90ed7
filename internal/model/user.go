package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserBrief 用户精简视图（对外只暴露 id/name/email，绝不带密码）
// 与 User 共用 users 表，电影接口返回的创建者信息统一用这个结构
type UserBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TableName 精简视图仍然读 users 表
func (UserBrief) TableName() string {
	return "users"
}
