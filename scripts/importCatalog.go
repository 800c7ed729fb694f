package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"futurebound/config"
	"futurebound/database"
	"futurebound/logger"
	courseModels "futurebound/models/course"
	"futurebound/services/progress"
	"futurebound/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Each CSV row describes one lesson together with the module and course it
// belongs to. Rows for the same course and module repeat those columns.
var requiredColumns = []string{"course_title", "instructor", "module_order", "module_title", "lesson_order", "lesson_title"}

type importStats struct {
	Courses  int
	Modules  int
	Lessons  int
	Updated  int
	Skipped  int
	Affected map[uint]bool
}

func main() {
	if err := logger.Init(os.Getenv("APP_ENV")); err != nil {
		panic(err)
	}
	defer logger.Sync()

	path := "catalog.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open(path)
	if err != nil {
		logger.Log.Fatalw("failed to open CSV file", "path", path, "error", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		logger.Log.Fatalw("failed to read CSV", "error", err)
	}

	stats, err := importRows(database.Database.Db, records)
	if err != nil {
		logger.Log.Fatalw("import failed", "error", err)
	}

	reconciled := 0
	for courseID := range stats.Affected {
		n, err := progress.ReconcileCourse(database.Database.Db, courseID)
		if err != nil {
			logger.Log.Errorw("reconcile failed", "course_id", courseID, "error", err)
			continue
		}
		reconciled += n
	}

	logger.Log.Infow("import complete",
		"courses_created", stats.Courses,
		"modules_created", stats.Modules,
		"lessons_created", stats.Lessons,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"enrollments_reconciled", reconciled,
	)
}

// importRows upserts courses by slug, modules by (course, order) and lessons
// by (module, order). Rows missing a title or with a bad order are skipped.
func importRows(db *gorm.DB, records [][]string) (*importStats, error) {
	if len(records) < 2 {
		return nil, errors.New("CSV file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := headerIndex[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	stats := &importStats{Affected: make(map[uint]bool)}
	for i, row := range records[1:] {
		field := func(name string) string { return getField(row, headerIndex, name) }

		moduleOrder, lessonOrder := parseInt(field("module_order")), parseInt(field("lesson_order"))
		if field("course_title") == "" || field("module_title") == "" || field("lesson_title") == "" ||
			moduleOrder < 1 || lessonOrder < 1 {
			logger.Log.Warnw("skipping row", "row", i+2)
			stats.Skipped++
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			c, err := upsertCourse(tx, field, stats)
			if err != nil {
				return err
			}
			m, err := upsertModule(tx, c.ID, moduleOrder, field, stats)
			if err != nil {
				return err
			}
			if err := upsertLesson(tx, m.ID, lessonOrder, field, stats); err != nil {
				return err
			}
			stats.Affected[c.ID] = true
			return nil
		})
		if err != nil {
			return stats, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return stats, nil
}

func upsertCourse(tx *gorm.DB, field func(string) string, stats *importStats) (*courseModels.Course, error) {
	slug := field("course_slug")
	if slug == "" {
		slug = utils.Slugify(field("course_title"))
	}

	var c courseModels.Course
	err := tx.Unscoped().Where("slug = ?", slug).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = courseModels.Course{
			Title:       field("course_title"),
			Slug:        slug,
			Description: field("course_description"),
			CourseType:  oneOf(field("course_type"), []string{courseModels.TypeFree, courseModels.TypePremium}, courseModels.TypeFree),
			Price:       parseDecimal(field("price")),
			Category:    oneOf(field("category"), courseModels.Categories, "knowledge"),
			Level:       oneOf(field("level"), courseModels.Levels, "beginner"),
			Instructor:  field("instructor"),
			IsActive:    true,
		}
		if err := tx.Create(&c).Error; err != nil {
			return nil, err
		}
		stats.Courses++
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	if c.DeletedAt.Valid {
		return nil, fmt.Errorf("course %q was deleted", slug)
	}

	updates := map[string]interface{}{"title": field("course_title"), "instructor": field("instructor")}
	if v := field("course_description"); v != "" {
		updates["description"] = v
	}
	if v := field("category"); v != "" {
		updates["category"] = oneOf(v, courseModels.Categories, c.Category)
	}
	if v := field("level"); v != "" {
		updates["level"] = oneOf(v, courseModels.Levels, c.Level)
	}
	if err := tx.Model(&c).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func upsertModule(tx *gorm.DB, courseID uint, order int, field func(string) string, stats *importStats) (*courseModels.Module, error) {
	var m courseModels.Module
	err := tx.Where("course_id = ? AND order_index = ?", courseID, order).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = courseModels.Module{
			CourseID:   courseID,
			Title:      field("module_title"),
			OrderIndex: order,
			IsActive:   true,
		}
		if err := tx.Create(&m).Error; err != nil {
			return nil, err
		}
		stats.Modules++
		return &m, nil
	}
	if err != nil {
		return nil, err
	}
	if m.Title != field("module_title") {
		if err := tx.Model(&m).Update("title", field("module_title")).Error; err != nil {
			return nil, err
		}
	}
	return &m, nil
}

func upsertLesson(tx *gorm.DB, moduleID uint, order int, field func(string) string, stats *importStats) error {
	values := map[string]interface{}{
		"title":            field("lesson_title"),
		"content_type":     oneOf(field("content_type"), courseModels.LessonContentTypes, "video"),
		"video_url":        field("video_url"),
		"text_content":     field("text_content"),
		"duration_minutes": parseInt(field("duration_minutes")),
		"is_preview":       parseBool(field("is_preview")),
	}

	var l courseModels.Lesson
	err := tx.Where("module_id = ? AND order_index = ?", moduleID, order).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l = courseModels.Lesson{ModuleID: moduleID, OrderIndex: order, IsActive: true}
		if err := tx.Create(&l).Error; err != nil {
			return err
		}
		stats.Lessons++
	} else if err != nil {
		return err
	} else {
		stats.Updated++
	}
	return tx.Model(&l).Updates(values).Error
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(s string) int {
	val, err := strconv.Atoi(s)
	if err != nil || val < 0 {
		return 0
	}
	return val
}

func parseBool(s string) bool {
	val, _ := strconv.ParseBool(s)
	return val
}

func parseDecimal(s string) decimal.Decimal {
	val, err := decimal.NewFromString(s)
	if err != nil || val.IsNegative() {
		return decimal.Zero
	}
	return val
}

func oneOf(v string, allowed []string, fallback string) string {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if a == v {
			return a
		}
	}
	return fallback
}
