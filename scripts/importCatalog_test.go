package main

import (
	"testing"

	"futurebound/database/dbtest"
	courseModels "futurebound/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var header = []string{"course_title", "category", "level", "instructor", "module_order", "module_title", "lesson_order", "lesson_title", "content_type", "is_preview"}

func TestImportRows(t *testing.T) {
	db := dbtest.Open(t)

	records := [][]string{
		header,
		{"Go Basics", "knowledge", "beginner", "Asha", "1", "Intro", "1", "Hello", "video", "true"},
		{"Go Basics", "knowledge", "beginner", "Asha", "1", "Intro", "2", "Setup", "text", "false"},
		{"Go Basics", "knowledge", "beginner", "Asha", "2", "Types", "1", "Ints", "", ""},
		{"Go Basics", "knowledge", "beginner", "Asha", "0", "Bad", "1", "Skipped", "", ""},
	}

	stats, err := importRows(db, records)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Courses)
	assert.Equal(t, 2, stats.Modules)
	assert.Equal(t, 3, stats.Lessons)
	assert.Equal(t, 1, stats.Skipped)
	assert.Len(t, stats.Affected, 1)

	var c courseModels.Course
	require.NoError(t, db.Where("slug = ?", "go-basics").First(&c).Error)
	assert.True(t, c.IsActive)

	var first courseModels.Lesson
	require.NoError(t, db.Where("title = ?", "Hello").First(&first).Error)
	assert.True(t, first.IsPreview)

	var fallback courseModels.Lesson
	require.NoError(t, db.Where("title = ?", "Ints").First(&fallback).Error)
	assert.Equal(t, "video", fallback.ContentType)

	t.Run("re-import updates in place", func(t *testing.T) {
		stats, err := importRows(db, [][]string{
			header,
			{"Go Basics", "knowledge", "intermediate", "Asha", "1", "Intro", "1", "Hello again", "video", "false"},
		})
		require.NoError(t, err)
		assert.Zero(t, stats.Courses)
		assert.Zero(t, stats.Lessons)
		assert.Equal(t, 1, stats.Updated)

		var lessons int64
		db.Model(&courseModels.Lesson{}).Count(&lessons)
		assert.EqualValues(t, 3, lessons)

		var l courseModels.Lesson
		require.NoError(t, db.Where("title = ?", "Hello again").First(&l).Error)
		assert.False(t, l.IsPreview)

		require.NoError(t, db.First(&c, c.ID).Error)
		assert.Equal(t, "intermediate", c.Level)
	})
}

func TestImportRowsRejectsBadHeader(t *testing.T) {
	db := dbtest.Open(t)

	_, err := importRows(db, [][]string{{"title"}, {"x"}})
	assert.ErrorContains(t, err, "missing column")

	_, err = importRows(db, [][]string{header})
	assert.Error(t, err)
}
