// Package dbtest opens throwaway SQLite databases and seeds fixtures for tests.
package dbtest

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"futurebound/database"
	"futurebound/models"
	courseModels "futurebound/models/course"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Uint64

// Open returns a migrated in-memory database that lives for the duration of t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	sqlDB, err := sql.Open(sqlite.DriverName, ":memory:")
	if err != nil {
		t.Fatalf("dbtest.Open() failed: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := database.Open(sqlite.Dialector{Conn: sqlDB})
	if err != nil {
		t.Fatalf("dbtest.Open() failed: %v", err)
	}
	return db
}

// UseGlobal points database.Database at db for the duration of t.
func UseGlobal(t testing.TB, db *gorm.DB) {
	t.Helper()
	prev := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = prev })
}

// User creates an active, verified user.
func User(t testing.TB, db *gorm.DB, role string) models.User {
	t.Helper()
	n := seq.Add(1)
	u := models.User{
		Name:            fmt.Sprintf("User %d", n),
		Username:        fmt.Sprintf("user%d", n),
		Email:           fmt.Sprintf("user%d@example.com", n),
		Password:        "x",
		Role:            role,
		IsEmailVerified: true,
		IsActive:        true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("dbtest.User() failed: %v", err)
	}
	return u
}

// Catalog is a seeded course with its modules and lessons in order.
type Catalog struct {
	Course  courseModels.Course
	Modules []courseModels.Module
	Lessons [][]courseModels.Lesson
}

// Course creates an active course with one active module per entry of
// lessonsPerModule, each holding that many active lessons ordered from 1.
func Course(t testing.TB, db *gorm.DB, lessonsPerModule ...int) Catalog {
	t.Helper()
	n := seq.Add(1)
	cat := Catalog{
		Course: courseModels.Course{
			Title:      fmt.Sprintf("Course %d", n),
			Slug:       fmt.Sprintf("course-%d", n),
			CourseType: courseModels.TypeFree,
			Category:   "knowledge",
			Level:      "beginner",
			Instructor: "Instructor",
			IsActive:   true,
		},
	}
	if err := db.Create(&cat.Course).Error; err != nil {
		t.Fatalf("dbtest.Course() failed: %v", err)
	}
	for mi, count := range lessonsPerModule {
		m := courseModels.Module{
			CourseID:   cat.Course.ID,
			Title:      fmt.Sprintf("Module %d", mi+1),
			OrderIndex: mi + 1,
			IsActive:   true,
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("dbtest.Course() failed: %v", err)
		}
		lessons := make([]courseModels.Lesson, 0, count)
		for li := 0; li < count; li++ {
			l := courseModels.Lesson{
				ModuleID:    m.ID,
				Title:       fmt.Sprintf("Lesson %d.%d", mi+1, li+1),
				ContentType: "video",
				OrderIndex:  li + 1,
				IsActive:    true,
			}
			if err := db.Create(&l).Error; err != nil {
				t.Fatalf("dbtest.Course() failed: %v", err)
			}
			lessons = append(lessons, l)
		}
		cat.Modules = append(cat.Modules, m)
		cat.Lessons = append(cat.Lessons, lessons)
	}
	return cat
}
