package model

import "time"

// User 定义了用户模型
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// InsertUser 是注册时可设置的字段，Password 应为已哈希的值。
type InsertUser struct {
	Name     string
	Email    string
	Password string
}

// PublicUser 是对外展示的作者信息，不包含邮箱与密码。
type PublicUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public 转换为公开资料。
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}
