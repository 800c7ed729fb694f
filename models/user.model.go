package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Name                string     `json:"name" gorm:"default:''"`
	Username            string     `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email               string     `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Password            string     `json:"-" gorm:"not null"`
	Role                string     `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	Phone               string     `json:"phone" gorm:"size:15;default:''"`
	College             string     `json:"college" gorm:"size:200;default:''"`
	Education           string     `json:"education" gorm:"size:20;default:''"` // undergraduate, graduate, postgraduate, others
	State               string     `json:"state" gorm:"size:20;default:''"`
	DateOfBirth         *time.Time `json:"date_of_birth"`
	IsEmailVerified     bool       `json:"is_email_verified" gorm:"default:false"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
