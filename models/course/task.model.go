package course

import "gorm.io/gorm"

var TaskTypes = []string{"reading", "video", "coding", "quiz"}

// Task is an ordered piece of module work alongside the lessons
type Task struct {
	gorm.Model
	ModuleID           uint   `json:"module_id" gorm:"not null;uniqueIndex:idx_task_module_order"`
	Title              string `json:"title" gorm:"size:200;not null"`
	Description        string `json:"description" gorm:"type:text"`
	TaskType           string `json:"task_type" gorm:"size:20;default:'reading'"` // reading, video, coding, quiz
	VideoURL           string `json:"video_url"`
	TextContent        string `json:"text_content" gorm:"type:text"`
	CodingInstructions string `json:"coding_instructions" gorm:"type:text"`
	DurationMinutes    uint   `json:"duration_minutes" gorm:"default:0"`
	OrderIndex         int    `json:"order_index" gorm:"not null;default:0;uniqueIndex:idx_task_module_order"`
	IsRequired         bool   `json:"is_required"`
	IsActive           bool   `json:"is_active"`
}
