package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Username         string     `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email            string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash     string     `gorm:"size:100;not null" json:"-"`
	Role             Role       `gorm:"size:16;not null;default:user" json:"role"`
	Avatar           string     `gorm:"size:512" json:"avatar"`
	ResetTokenHash   string     `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// IsAdmin 唯一的管理员判定，只看存储的角色
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

func (u *User) Profile() PublicProfile {
	return PublicProfile{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// PublicProfile 对其他用户可见的资料
type PublicProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Caller 鉴权后交给 service 的调用方身份
type Caller struct {
	ID   string
	Role Role
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// Admin 能回答“是否管理员”的对象
type Admin interface{ IsAdmin() bool }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}
