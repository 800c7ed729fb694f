// Package progress tracks lesson completion for enrollments and keeps the
// cached enrollment percentage and status in step with the progress ledger.
//
// Every mutation runs inside one transaction that first locks the enrollment
// row, so concurrent completions for the same enrollment are serialized.
package progress

import (
	"errors"
	"fmt"
	"time"

	courseModels "futurebound/models/course"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound               = errors.New("enrollment or lesson not found")
	ErrCourseNotFound         = errors.New("course not found or not active")
	ErrAlreadyEnrolled        = errors.New("user already enrolled in this course")
	ErrPrerequisiteIncomplete = errors.New("previous lessons in this module must be completed first")
	ErrEnrollmentCancelled    = errors.New("enrollment is cancelled")
)

// Precision is the number of fractional digits kept on progress percentages.
const Precision = 6

var hundred = decimal.NewFromInt(100)

// Now is the clock used for completion timestamps.
var Now = time.Now

// Navigation points the caller at the lesson to open after a completion.
type Navigation struct {
	NextLessonID       *uint `json:"next_lesson_id"`
	ModuleEnd          bool  `json:"module_end"`
	NextModuleLessonID *uint `json:"next_module_lesson_id"`
	CourseEnd          bool  `json:"course_end"`
}

// Outcome is the result of MarkLessonComplete.
type Outcome struct {
	Enrollment courseModels.Enrollment `json:"enrollment"`
	Progress   courseModels.Progress   `json:"progress"`
	Changed    bool                    `json:"changed"`
	ReviewMode bool                    `json:"review_mode"`
	Navigation Navigation              `json:"navigation"`
}

// Percentage returns completed/total*100 rounded to Precision digits.
// A course without lessons is complete by definition.
func Percentage(completed, total int64) decimal.Decimal {
	if total <= 0 {
		return hundred
	}
	return decimal.NewFromInt(completed).
		Mul(hundred).
		Div(decimal.NewFromInt(total)).
		Round(Precision)
}

// activeLessons scopes a query to the active lessons of the active modules of a course.
func activeLessons(tx *gorm.DB, courseID uint) *gorm.DB {
	return tx.Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("modules.course_id = ? AND modules.is_active = ?", courseID, true).
		Where("lessons.is_active = ?", true)
}

// TotalLessons counts the lessons that make up a course's progress denominator.
func TotalLessons(tx *gorm.DB, courseID uint) (int64, error) {
	var n int64
	if err := activeLessons(tx, courseID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count lessons of course %d: %w", courseID, err)
	}
	return n, nil
}

// CompletedLessons counts completed ledger rows of an enrollment whose
// lesson is still part of the course's active lesson set.
func CompletedLessons(tx *gorm.DB, e *courseModels.Enrollment) (int64, error) {
	var n int64
	err := tx.Model(&courseModels.Progress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id AND lessons.deleted_at IS NULL").
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("lesson_progress.enrollment_id = ? AND lesson_progress.is_completed = ?", e.ID, true).
		Where("modules.course_id = ? AND modules.is_active = ? AND lessons.is_active = ?", e.CourseID, true, true).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count completed lessons of enrollment %d: %w", e.ID, err)
	}
	return n, nil
}

// Expected computes the percentage the ledger currently implies for e.
func Expected(tx *gorm.DB, e *courseModels.Enrollment) (decimal.Decimal, error) {
	total, err := TotalLessons(tx, e.CourseID)
	if err != nil {
		return decimal.Zero, err
	}
	if total == 0 {
		return hundred, nil
	}
	completed, err := CompletedLessons(tx, e)
	if err != nil {
		return decimal.Zero, err
	}
	return Percentage(completed, total), nil
}

// Recompute refreshes e's cached percentage and status from the ledger and
// persists them. Status only moves forward: enrolled -> in_progress ->
// completed. A cancelled enrollment keeps its status. It reports whether
// anything was written.
func Recompute(tx *gorm.DB, e *courseModels.Enrollment) (bool, error) {
	pct, err := Expected(tx, e)
	if err != nil {
		return false, err
	}

	changed := !pct.Equal(e.ProgressPercentage)
	e.ProgressPercentage = pct

	switch {
	case pct.GreaterThanOrEqual(hundred) && e.Status != courseModels.StatusCompleted && e.Status != courseModels.StatusCancelled:
		e.Status = courseModels.StatusCompleted
		if e.CompletedAt == nil {
			t := Now()
			e.CompletedAt = &t
		}
		changed = true
	case pct.IsPositive() && e.Status == courseModels.StatusEnrolled:
		e.Status = courseModels.StatusInProgress
		changed = true
	}

	if !changed {
		return false, nil
	}
	err = tx.Model(e).Updates(map[string]interface{}{
		"progress_percentage": e.ProgressPercentage,
		"status":              e.Status,
		"completed_at":        e.CompletedAt,
	}).Error
	if err != nil {
		return false, fmt.Errorf("save enrollment %d: %w", e.ID, err)
	}
	return true, nil
}

// lockEnrollment loads an enrollment of userID under a row lock. A zero
// userID skips the ownership check.
func lockEnrollment(tx *gorm.DB, userID, enrollmentID uint) (*courseModels.Enrollment, error) {
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", enrollmentID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	var e courseModels.Enrollment
	if err := q.First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindLesson loads an active lesson inside an active module of courseID.
func FindLesson(tx *gorm.DB, courseID, lessonID uint) (*courseModels.Lesson, error) {
	var l courseModels.Lesson
	err := activeLessons(tx, courseID).Where("lessons.id = ?", lessonID).Take(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// EnsureProgress returns the ledger row for (enrollment, lesson), creating an
// incomplete one if absent. The insert ignores unique conflicts so a racing
// first access reuses the winner's row.
func EnsureProgress(tx *gorm.DB, enrollmentID, lessonID uint) (*courseModels.Progress, error) {
	row := courseModels.Progress{
		EnrollmentID:   enrollmentID,
		LessonID:       lessonID,
		LastAccessedAt: Now(),
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("create progress: %w", err)
	}

	var p courseModels.Progress
	if err := tx.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).First(&p).Error; err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return &p, nil
}

// prerequisitesMet reports whether every active lesson ordered before l in
// its module is completed for the enrollment.
func prerequisitesMet(tx *gorm.DB, enrollmentID uint, l *courseModels.Lesson) (bool, error) {
	var earlier []uint
	err := tx.Model(&courseModels.Lesson{}).
		Where("module_id = ? AND is_active = ? AND order_index < ?", l.ModuleID, true, l.OrderIndex).
		Pluck("id", &earlier).Error
	if err != nil {
		return false, err
	}
	if len(earlier) == 0 {
		return true, nil
	}

	var done int64
	err = tx.Model(&courseModels.Progress{}).
		Where("enrollment_id = ? AND lesson_id IN ? AND is_completed = ?", enrollmentID, earlier, true).
		Count(&done).Error
	if err != nil {
		return false, err
	}
	return done == int64(len(earlier)), nil
}

// Navigate finds the lesson following l: the next active lesson of the same
// module, or else the first lesson of the next active module.
func Navigate(tx *gorm.DB, courseID uint, l *courseModels.Lesson) (Navigation, error) {
	var nav Navigation

	var next courseModels.Lesson
	res := tx.Where("module_id = ? AND is_active = ? AND order_index > ?", l.ModuleID, true, l.OrderIndex).
		Order("order_index asc").
		Limit(1).
		Find(&next)
	if res.Error != nil {
		return nav, res.Error
	}
	if res.RowsAffected > 0 {
		nav.NextLessonID = &next.ID
		return nav, nil
	}
	nav.ModuleEnd = true

	var current courseModels.Module
	if err := tx.First(&current, l.ModuleID).Error; err != nil {
		return nav, err
	}

	var following courseModels.Lesson
	res = activeLessons(tx, courseID).
		Where("modules.order_index > ?", current.OrderIndex).
		Order("modules.order_index asc").
		Order("lessons.order_index asc").
		Limit(1).
		Find(&following)
	if res.Error != nil {
		return nav, res.Error
	}
	if res.RowsAffected > 0 {
		nav.NextModuleLessonID = &following.ID
	} else {
		nav.CourseEnd = true
	}
	return nav, nil
}

// MarkLessonComplete marks a lesson done for the caller's enrollment and
// recomputes the enrollment. A lesson that is already complete is a no-op.
// On ErrPrerequisiteIncomplete the returned Outcome carries the unchanged
// enrollment so callers can report the current state.
func MarkLessonComplete(db *gorm.DB, userID, enrollmentID, lessonID uint) (*Outcome, error) {
	out := &Outcome{}
	err := db.Transaction(func(tx *gorm.DB) error {
		e, err := lockEnrollment(tx, userID, enrollmentID)
		if err != nil {
			return err
		}
		out.Enrollment = *e

		lesson, err := FindLesson(tx, e.CourseID, lessonID)
		if err != nil {
			return err
		}
		if e.Status == courseModels.StatusCancelled {
			return ErrEnrollmentCancelled
		}

		p, err := EnsureProgress(tx, e.ID, lesson.ID)
		if err != nil {
			return err
		}

		out.Navigation, err = Navigate(tx, e.CourseID, lesson)
		if err != nil {
			return err
		}

		if p.IsCompleted {
			out.Progress = *p
			return nil
		}

		out.ReviewMode = e.Status == courseModels.StatusCompleted
		if !out.ReviewMode {
			ok, err := prerequisitesMet(tx, e.ID, lesson)
			if err != nil {
				return err
			}
			if !ok {
				return ErrPrerequisiteIncomplete
			}
		}

		t := Now()
		res := tx.Model(p).Where("is_completed = ?", false).Updates(map[string]interface{}{
			"is_completed":     true,
			"completed_at":     t,
			"last_accessed_at": t,
		})
		if res.Error != nil {
			return fmt.Errorf("complete lesson %d: %w", lesson.ID, res.Error)
		}
		p.IsCompleted = true
		p.CompletedAt = &t
		p.LastAccessedAt = t
		out.Progress = *p
		out.Changed = true

		if !out.ReviewMode {
			if _, err := Recompute(tx, e); err != nil {
				return err
			}
		}
		out.Enrollment = *e
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPrerequisiteIncomplete) {
			return out, err
		}
		return nil, err
	}
	return out, nil
}

// OpenLesson records an access to a lesson, creating its ledger row lazily.
// Cancelled enrollments fail with ErrEnrollmentCancelled.
func OpenLesson(db *gorm.DB, userID, enrollmentID, lessonID uint) (*courseModels.Enrollment, *courseModels.Lesson, *courseModels.Progress, error) {
	var (
		e      courseModels.Enrollment
		lesson *courseModels.Lesson
		p      *courseModels.Progress
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", enrollmentID, userID).First(&e).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if e.Status == courseModels.StatusCancelled {
			return ErrEnrollmentCancelled
		}
		var err error
		if lesson, err = FindLesson(tx, e.CourseID, lessonID); err != nil {
			return err
		}
		if p, err = EnsureProgress(tx, e.ID, lesson.ID); err != nil {
			return err
		}
		p.LastAccessedAt = Now()
		return tx.Model(p).Update("last_accessed_at", p.LastAccessedAt).Error
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return &e, lesson, p, nil
}

// CreateEnrollment enrolls a user in an active course. A second enrollment
// for the same pair fails with ErrAlreadyEnrolled and leaves the first as is.
func CreateEnrollment(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	var created courseModels.Enrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		var c courseModels.Course
		if err := tx.Where("id = ? AND is_active = ?", courseID, true).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyEnrolled
		}

		total, err := TotalLessons(tx, c.ID)
		if err != nil {
			return err
		}

		created = courseModels.Enrollment{
			UserID:             userID,
			CourseID:           c.ID,
			Status:             courseModels.StatusEnrolled,
			ProgressPercentage: decimal.Zero,
			EnrolledAt:         Now(),
			PaymentStatus:      c.IsFree(),
		}
		if total == 0 {
			created.ProgressPercentage = hundred
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("create enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Refresh recomputes one enrollment under lock. Completed and cancelled
// enrollments are returned untouched. A zero userID skips the ownership check.
func Refresh(db *gorm.DB, userID, enrollmentID uint) (*courseModels.Enrollment, error) {
	var e *courseModels.Enrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = lockEnrollment(tx, userID, enrollmentID); err != nil {
			return err
		}
		if e.Status == courseModels.StatusCompleted || e.Status == courseModels.StatusCancelled {
			return nil
		}
		_, err = Recompute(tx, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ReconcileAll recomputes every enrollment that is still in flight and
// returns how many had a stale cached state.
func ReconcileAll(db *gorm.DB) (int, error) {
	return reconcile(db, db.Model(&courseModels.Enrollment{}))
}

// ReconcileCourse is ReconcileAll restricted to one course, used after its
// lesson set changes.
func ReconcileCourse(db *gorm.DB, courseID uint) (int, error) {
	return reconcile(db, db.Model(&courseModels.Enrollment{}).Where("course_id = ?", courseID))
}

func reconcile(db *gorm.DB, scope *gorm.DB) (int, error) {
	var ids []uint
	err := scope.
		Where("status IN ?", []string{courseModels.StatusEnrolled, courseModels.StatusInProgress}).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}

	drifted := 0
	for _, id := range ids {
		err := db.Transaction(func(tx *gorm.DB) error {
			e, err := lockEnrollment(tx, 0, id)
			if err != nil {
				return err
			}
			changed, err := Recompute(tx, e)
			if changed {
				drifted++
			}
			return err
		})
		if err != nil && !errors.Is(err, ErrNotFound) {
			return drifted, fmt.Errorf("reconcile enrollment %d: %w", id, err)
		}
	}
	return drifted, nil
}

// Cancel moves an enrollment to cancelled. Progress rows are kept.
func Cancel(db *gorm.DB, enrollmentID uint) (*courseModels.Enrollment, error) {
	var e *courseModels.Enrollment
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if e, err = lockEnrollment(tx, 0, enrollmentID); err != nil {
			return err
		}
		e.Status = courseModels.StatusCancelled
		return tx.Model(e).Update("status", e.Status).Error
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// PurgeEnrollments hard-deletes enrollments together with everything they own.
func PurgeEnrollments(tx *gorm.DB, enrollmentIDs []uint) error {
	if len(enrollmentIDs) == 0 {
		return nil
	}
	for _, m := range []interface{}{
		&courseModels.Progress{},
		&courseModels.QuizAttempt{},
		&courseModels.Certificate{},
	} {
		if err := tx.Unscoped().Where("enrollment_id IN ?", enrollmentIDs).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Unscoped().Where("id IN ?", enrollmentIDs).Delete(&courseModels.Enrollment{}).Error
}
