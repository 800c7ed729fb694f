package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OTPPurposeEmailVerification = "EMAIL_VERIFICATION"
	OTPPurposePasswordReset     = "PASSWORD_RESET"
)

// OTP is a single-use, time-bounded challenge issued to one user for one purpose.
type OTP struct {
	gorm.Model
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	Email     string     `json:"email,omitempty" gorm:"size:254;index"`
	Purpose   string     `json:"purpose" gorm:"size:32;index;not null"`
	Code      string     `json:"-" gorm:"size:6;not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	Attempts  uint       `json:"-" gorm:"not null;default:0"` // wrong guesses so far
	UsedAt    *time.Time `json:"used_at"`
}

// Usable reports whether the challenge can still be consumed at t.
func (o *OTP) Usable(t time.Time) bool {
	return o.UsedAt == nil && t.Before(o.ExpiresAt)
}
