package course

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	UserID     uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_review_user_course"`
	CourseID   uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_review_user_course;index"`
	Rating     int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1–5 rating
	ReviewText string `json:"review_text" gorm:"type:text;default:''"`
}
