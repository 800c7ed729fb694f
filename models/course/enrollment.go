package course

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusEnrolled   = "enrolled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var EnrollmentStatuses = []string{StatusEnrolled, StatusInProgress, StatusCompleted, StatusCancelled}

// Enrollment tracks a user's enrollment in a course. Status and
// ProgressPercentage are derived from the Progress rows and cached here.
type Enrollment struct {
	gorm.Model
	UserID             uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID           uint            `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course;index"`
	Status             string          `json:"status" gorm:"size:20;default:'enrolled';index"` // enrolled, in_progress, completed, cancelled
	ProgressPercentage decimal.Decimal `json:"progress_percentage" gorm:"type:decimal(9,6);not null;default:0"`
	EnrolledAt         time.Time       `json:"enrolled_at"`
	CompletedAt        *time.Time      `json:"completed_at"`
	PaymentStatus      bool            `json:"payment_status"` // true for free courses
	CertificateIssued  bool            `json:"certificate_issued" gorm:"default:false"`
	Course             *Course         `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
