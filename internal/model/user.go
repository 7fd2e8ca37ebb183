package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name              string     `gorm:"size:100;not null" json:"name"`
	Email             string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"size:100;not null" json:"-"`
	Role              UserRole   `gorm:"size:20;default:'student'" json:"role"`
	IsVerifiedTeacher bool       `gorm:"default:false" json:"is_verified_teacher"` // 管理员审核通过后才能发布作业
	Avatar            string     `gorm:"size:255" json:"avatar"`
	Disabled          bool       `gorm:"default:false" json:"disabled"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// CanAuthorHomework 认证教师或管理员可以发布、修改作业
func (u *User) CanAuthorHomework() bool {
	if u.Role == Admin {
		return true
	}
	return u.Role == Teacher && u.IsVerifiedTeacher
}
