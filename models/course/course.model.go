package course

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TypeFree    = "free"
	TypePremium = "premium"
)

var (
	Categories = []string{"knowledge", "internship", "project", "specialization"}
	Levels     = []string{"beginner", "intermediate", "advanced"}
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title              string          `json:"title" gorm:"size:200;not null"`
	Slug               string          `json:"slug" gorm:"uniqueIndex;size:220;not null"`
	Description        string          `json:"description" gorm:"type:text"`
	ShortDescription   string          `json:"short_description" gorm:"size:300"`
	ThumbnailURL       string          `json:"thumbnail_url"`
	CoverImageURL      string          `json:"cover_image_url"`
	CourseType         string          `json:"course_type" gorm:"size:10;default:'free'"` // free, premium
	Price              decimal.Decimal `json:"price" gorm:"type:decimal(10,2);default:0"`
	Category           string          `json:"category" gorm:"size:20;default:'knowledge';index"`
	Level              string          `json:"level" gorm:"size:50;default:'beginner';index"`
	DurationHours      uint            `json:"duration_hours" gorm:"default:0"`
	Instructor         string          `json:"instructor" gorm:"size:100"`
	Prerequisites      string          `json:"prerequisites" gorm:"type:text"`
	LearningObjectives string          `json:"learning_objectives" gorm:"type:text"`
	IsActive           bool            `json:"is_active" gorm:"index"`
	Modules            []Module        `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}

func (c *Course) IsFree() bool {
	return c.CourseType != TypePremium
}
