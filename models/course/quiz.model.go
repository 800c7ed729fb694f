package course

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

// Quiz is the end-of-module assessment. A module has at most one.
type Quiz struct {
	gorm.Model
	ModuleID         uint           `json:"module_id" gorm:"uniqueIndex;not null"`
	Title            string         `json:"title" gorm:"size:200;not null"`
	Description      string         `json:"description" gorm:"type:text"`
	TimeLimitMinutes uint           `json:"time_limit_minutes" gorm:"default:30"`
	PassingScore     uint           `json:"passing_score" gorm:"default:70"` // percentage required to pass
	IsActive         bool           `json:"is_active"`
	Questions        []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	QuestionText  string         `json:"question_text" gorm:"type:text;not null"`
	QuestionType  string         `json:"question_type" gorm:"size:20;default:'multiple_choice'"`
	Options       datatypes.JSON `json:"options"`                                  // for multiple choice: ["option1", "option2", ...]
	CorrectAnswer string         `json:"correct_answer,omitempty" gorm:"size:500"` // option index or text, "true"/"false"
	Explanation   string         `json:"explanation,omitempty" gorm:"type:text"`
	Points        uint           `json:"points" gorm:"default:1"`
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
}

// QuizAttempt records one graded submission.
type QuizAttempt struct {
	gorm.Model
	EnrollmentID  uint            `json:"enrollment_id" gorm:"index;not null"`
	QuizID        uint            `json:"quiz_id" gorm:"index;not null"`
	Answers       datatypes.JSON  `json:"answers"`
	Score         uint            `json:"score"`
	MaxScore      uint            `json:"max_score"`
	Percentage    decimal.Decimal `json:"percentage" gorm:"type:decimal(9,6)"`
	Passed        bool            `json:"passed"`
	AttemptNumber int             `json:"attempt_number" gorm:"default:1"`
}
