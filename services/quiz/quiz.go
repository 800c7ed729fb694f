// Package quiz loads module quizzes for an enrollment and grades submissions.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	courseModels "futurebound/models/course"
	"futurebound/services/progress"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrQuizNotFound = errors.New("quiz not found for this module")
	ErrNoQuestions  = errors.New("quiz has no questions")
)

// QuestionResult is the grading outcome of one question.
type QuestionResult struct {
	QuestionID    uint   `json:"question_id"`
	Submitted     string `json:"submitted"`
	Correct       bool   `json:"correct"`
	Points        uint   `json:"points"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

// Result is a graded submission.
type Result struct {
	Score      uint             `json:"score"`
	MaxScore   uint             `json:"max_score"`
	Percentage decimal.Decimal  `json:"percentage"`
	Passed     bool             `json:"passed"`
	Questions  []QuestionResult `json:"questions"`
}

// Options decodes a question's option list.
func Options(q *courseModels.QuizQuestion) []string {
	var opts []string
	if len(q.Options) == 0 {
		return nil
	}
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}

// EncodeOptions is the inverse of Options.
func EncodeOptions(opts []string) datatypes.JSON {
	if len(opts) == 0 {
		return nil
	}
	b, _ := json.Marshal(opts)
	return datatypes.JSON(b)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// optionIndex resolves an answer given as an index or as option text.
func optionIndex(opts []string, answer string) int {
	if i, err := strconv.Atoi(strings.TrimSpace(answer)); err == nil {
		if i >= 0 && i < len(opts) {
			return i
		}
		return -1
	}
	for i, o := range opts {
		if normalize(o) == normalize(answer) {
			return i
		}
	}
	return -1
}

// IsCorrect compares a submitted answer with the stored one.
func IsCorrect(q *courseModels.QuizQuestion, submitted string) bool {
	if strings.TrimSpace(submitted) == "" {
		return false
	}
	if q.QuestionType == courseModels.QuestionMultipleChoice {
		opts := Options(q)
		want, got := optionIndex(opts, q.CorrectAnswer), optionIndex(opts, submitted)
		if want >= 0 && got >= 0 {
			return want == got
		}
	}
	return normalize(q.CorrectAnswer) == normalize(submitted)
}

// Grade scores answers, keyed by question id, against quiz questions.
func Grade(qz *courseModels.Quiz, answers map[string]string) Result {
	res := Result{Questions: make([]QuestionResult, 0, len(qz.Questions))}
	for i := range qz.Questions {
		q := &qz.Questions[i]
		submitted := answers[strconv.FormatUint(uint64(q.ID), 10)]
		qr := QuestionResult{
			QuestionID:    q.ID,
			Submitted:     submitted,
			Correct:       IsCorrect(q, submitted),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
		res.MaxScore += q.Points
		if qr.Correct {
			qr.Points = q.Points
			res.Score += q.Points
		}
		res.Questions = append(res.Questions, qr)
	}

	if res.MaxScore == 0 {
		res.Percentage = decimal.Zero
	} else {
		res.Percentage = decimal.NewFromInt(int64(res.Score)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(res.MaxScore))).
			Round(progress.Precision)
	}
	res.Passed = res.MaxScore > 0 && res.Percentage.GreaterThanOrEqual(decimal.NewFromInt(int64(qz.PassingScore)))
	return res
}

// ForEnrollment loads the active quiz of a module that belongs to the
// caller's enrollment, with its questions in order.
func ForEnrollment(db *gorm.DB, userID, enrollmentID, moduleID uint) (*courseModels.Enrollment, *courseModels.Quiz, error) {
	var e courseModels.Enrollment
	if err := db.Where("id = ? AND user_id = ?", enrollmentID, userID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, progress.ErrNotFound
		}
		return nil, nil, err
	}

	var m courseModels.Module
	if err := db.Where("id = ? AND course_id = ? AND is_active = ?", moduleID, e.CourseID, true).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, progress.ErrNotFound
		}
		return nil, nil, err
	}

	var qz courseModels.Quiz
	err := db.Where("module_id = ? AND is_active = ?", m.ID, true).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index asc, id asc")
		}).
		First(&qz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrQuizNotFound
		}
		return nil, nil, err
	}
	return &e, &qz, nil
}

// Submit grades answers and stores the attempt with the next attempt number.
func Submit(db *gorm.DB, userID, enrollmentID, moduleID uint, answers map[string]string) (*courseModels.QuizAttempt, *Result, error) {
	e, qz, err := ForEnrollment(db, userID, enrollmentID, moduleID)
	if err != nil {
		return nil, nil, err
	}
	if e.Status == courseModels.StatusCancelled {
		return nil, nil, progress.ErrEnrollmentCancelled
	}
	if len(qz.Questions) == 0 {
		return nil, nil, ErrNoQuestions
	}

	res := Grade(qz, answers)
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, nil, fmt.Errorf("encode answers: %w", err)
	}

	attempt := courseModels.QuizAttempt{
		EnrollmentID: e.ID,
		QuizID:       qz.ID,
		Answers:      datatypes.JSON(raw),
		Score:        res.Score,
		MaxScore:     res.MaxScore,
		Percentage:   res.Percentage,
		Passed:       res.Passed,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var previous int64
		if err := tx.Model(&courseModels.QuizAttempt{}).
			Where("enrollment_id = ? AND quiz_id = ?", e.ID, qz.ID).
			Count(&previous).Error; err != nil {
			return err
		}
		attempt.AttemptNumber = int(previous) + 1
		return tx.Create(&attempt).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("save quiz attempt: %w", err)
	}
	return &attempt, &res, nil
}
