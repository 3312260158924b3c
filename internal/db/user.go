package db

import (
	"time"

	"github.com/writespace/internal/model"
)

// User 是用户表的行结构。
// 邮箱只建普通索引，唯一性由注册流程保证。
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"size:320;index;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
}

// ToModel 转换为领域模型。
func (u User) ToModel() model.User {
	return model.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
	}
}
