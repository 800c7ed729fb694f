package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued once per completed enrollment.
type Certificate struct {
	gorm.Model
	EnrollmentID  uint      `json:"enrollment_id" gorm:"uniqueIndex;not null"`
	CertificateID string    `json:"certificate_id" gorm:"uniqueIndex;size:100;not null"`
	IssuedAt      time.Time `json:"issued_at"`
}
