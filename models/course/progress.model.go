package course

import (
	"time"

	"gorm.io/gorm"
)

// Progress is the ledger row for one lesson of one enrollment.
type Progress struct {
	gorm.Model
	EnrollmentID     uint       `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson"`
	LessonID         uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson"`
	IsCompleted      bool       `json:"is_completed" gorm:"default:false;index"`
	CompletedAt      *time.Time `json:"completed_at"`
	TimeSpentMinutes uint       `json:"time_spent_minutes" gorm:"default:0"`
	LastAccessedAt   time.Time  `json:"last_accessed_at"`
}

func (Progress) TableName() string {
	return "lesson_progress"
}
