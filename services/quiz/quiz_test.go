package quiz_test

import (
	"strconv"
	"testing"

	"futurebound/database/dbtest"
	"futurebound/models"
	courseModels "futurebound/models/course"
	"futurebound/services/progress"
	"futurebound/services/quiz"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestIsCorrect(t *testing.T) {
	mc := &courseModels.QuizQuestion{
		QuestionType:  courseModels.QuestionMultipleChoice,
		Options:       quiz.EncodeOptions([]string{"Goroutine", "Thread", "Process"}),
		CorrectAnswer: "0",
	}
	tf := &courseModels.QuizQuestion{QuestionType: courseModels.QuestionTrueFalse, CorrectAnswer: "true"}
	short := &courseModels.QuizQuestion{QuestionType: courseModels.QuestionShortAnswer, CorrectAnswer: "Channel"}

	tests := []struct {
		name      string
		q         *courseModels.QuizQuestion
		submitted string
		want      bool
	}{
		{"mc by index", mc, "0", true},
		{"mc by text", mc, " goroutine ", true},
		{"mc wrong index", mc, "1", false},
		{"mc out of range", mc, "7", false},
		{"mc empty", mc, "", false},
		{"true false", tf, "TRUE", true},
		{"true false wrong", tf, "false", false},
		{"short answer folds case", short, "channel", true},
		{"short answer wrong", short, "mutex", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, quiz.IsCorrect(tc.q, tc.submitted))
		})
	}
}

func TestGrade(t *testing.T) {
	qz := &courseModels.Quiz{
		PassingScore: 70,
		Questions: []courseModels.QuizQuestion{
			{Model: gorm.Model{ID: 1}, QuestionType: courseModels.QuestionTrueFalse, CorrectAnswer: "true", Points: 1},
			{Model: gorm.Model{ID: 2}, QuestionType: courseModels.QuestionTrueFalse, CorrectAnswer: "false", Points: 1},
			{Model: gorm.Model{ID: 3}, QuestionType: courseModels.QuestionShortAnswer, CorrectAnswer: "go", Points: 2},
		},
	}

	res := quiz.Grade(qz, map[string]string{"1": "true", "3": "Go"})
	assert.EqualValues(t, 3, res.Score)
	assert.EqualValues(t, 4, res.MaxScore)
	assert.True(t, decimal.NewFromInt(75).Equal(res.Percentage))
	assert.True(t, res.Passed)
	require.Len(t, res.Questions, 3)
	assert.False(t, res.Questions[1].Correct)
	assert.Zero(t, res.Questions[1].Points)

	res = quiz.Grade(qz, map[string]string{"1": "true", "2": "false"})
	assert.True(t, decimal.NewFromInt(50).Equal(res.Percentage))
	assert.False(t, res.Passed)

	empty := quiz.Grade(&courseModels.Quiz{PassingScore: 0}, nil)
	assert.True(t, empty.Percentage.IsZero())
	assert.False(t, empty.Passed)
}

func seedQuiz(t *testing.T, db *gorm.DB, moduleID uint) courseModels.Quiz {
	t.Helper()
	qz := courseModels.Quiz{ModuleID: moduleID, Title: "Check", PassingScore: 50, IsActive: true}
	require.NoError(t, db.Create(&qz).Error)
	questions := []courseModels.QuizQuestion{
		{QuizID: qz.ID, QuestionText: "2nd", QuestionType: courseModels.QuestionTrueFalse, CorrectAnswer: "false", Points: 1, OrderIndex: 2},
		{QuizID: qz.ID, QuestionText: "1st", QuestionType: courseModels.QuestionMultipleChoice,
			Options: quiz.EncodeOptions([]string{"a", "b"}), CorrectAnswer: "b", Points: 1, OrderIndex: 1},
	}
	require.NoError(t, db.Create(&questions).Error)
	return qz
}

func TestForEnrollment(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Course(t, db, 1, 1)
	u := dbtest.User(t, db, models.RoleUser)
	e, err := progress.CreateEnrollment(db, u.ID, cat.Course.ID)
	require.NoError(t, err)
	seedQuiz(t, db, cat.Modules[0].ID)

	_, qz, err := quiz.ForEnrollment(db, u.ID, e.ID, cat.Modules[0].ID)
	require.NoError(t, err)
	require.Len(t, qz.Questions, 2)
	assert.Equal(t, "1st", qz.Questions[0].QuestionText)

	_, _, err = quiz.ForEnrollment(db, u.ID, e.ID, cat.Modules[1].ID)
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)

	other := dbtest.User(t, db, models.RoleUser)
	_, _, err = quiz.ForEnrollment(db, other.ID, e.ID, cat.Modules[0].ID)
	assert.ErrorIs(t, err, progress.ErrNotFound)

	foreign := dbtest.Course(t, db, 1)
	_, _, err = quiz.ForEnrollment(db, u.ID, e.ID, foreign.Modules[0].ID)
	assert.ErrorIs(t, err, progress.ErrNotFound)
}

func TestSubmit(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Course(t, db, 1)
	u := dbtest.User(t, db, models.RoleUser)
	e, err := progress.CreateEnrollment(db, u.ID, cat.Course.ID)
	require.NoError(t, err)
	qz := seedQuiz(t, db, cat.Modules[0].ID)

	var questions []courseModels.QuizQuestion
	require.NoError(t, db.Where("quiz_id = ?", qz.ID).Order("order_index").Find(&questions).Error)

	first, res, err := quiz.Submit(db, u.ID, e.ID, cat.Modules[0].ID, map[string]string{key(questions[0].ID): "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.False(t, res.Passed)

	second, res, err := quiz.Submit(db, u.ID, e.ID, cat.Modules[0].ID, map[string]string{
		key(questions[0].ID): "1",
		key(questions[1].ID): "false",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)
	assert.True(t, res.Passed)
	assert.EqualValues(t, 2, second.Score)

	t.Run("cancelled enrollment", func(t *testing.T) {
		_, err := progress.Cancel(db, e.ID)
		require.NoError(t, err)
		_, _, err = quiz.Submit(db, u.ID, e.ID, cat.Modules[0].ID, nil)
		assert.ErrorIs(t, err, progress.ErrEnrollmentCancelled)
	})
}

func TestSubmitWithoutQuestions(t *testing.T) {
	db := dbtest.Open(t)
	cat := dbtest.Course(t, db, 1)
	u := dbtest.User(t, db, models.RoleUser)
	e, err := progress.CreateEnrollment(db, u.ID, cat.Course.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&courseModels.Quiz{ModuleID: cat.Modules[0].ID, Title: "Empty", IsActive: true}).Error)

	_, _, err = quiz.Submit(db, u.ID, e.ID, cat.Modules[0].ID, nil)
	assert.ErrorIs(t, err, quiz.ErrNoQuestions)
}
