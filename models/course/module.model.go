package course

import "gorm.io/gorm"

// Module represents a section/module within a course
type Module struct {
	gorm.Model
	CourseID    uint     `json:"course_id" gorm:"not null;uniqueIndex:idx_module_course_order"`
	Title       string   `json:"title" gorm:"size:200;not null"`
	Description string   `json:"description" gorm:"type:text"`
	OrderIndex  int      `json:"order_index" gorm:"not null;default:0;uniqueIndex:idx_module_course_order"` // Module order in course
	IsActive    bool     `json:"is_active"`
	Lessons     []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
	Tasks       []Task   `json:"tasks,omitempty" gorm:"foreignKey:ModuleID"`
}
