package course

import "gorm.io/gorm"

var LessonContentTypes = []string{"video", "text", "quiz", "assignment"}

// Lesson is one ordered unit of content within a module
type Lesson struct {
	gorm.Model
	ModuleID        uint   `json:"module_id" gorm:"not null;uniqueIndex:idx_lesson_module_order"`
	Title           string `json:"title" gorm:"size:200;not null"`
	Description     string `json:"description" gorm:"type:text"`
	ContentType     string `json:"content_type" gorm:"size:20;default:'video'"` // video, text, quiz, assignment
	VideoURL        string `json:"video_url"`
	TextContent     string `json:"text_content" gorm:"type:text"`
	DurationMinutes uint   `json:"duration_minutes" gorm:"default:0"`
	OrderIndex      int    `json:"order_index" gorm:"not null;default:0;uniqueIndex:idx_lesson_module_order"` // Order within module
	IsPreview       bool   `json:"is_preview" gorm:"default:false"`
	IsActive        bool   `json:"is_active"`
}
