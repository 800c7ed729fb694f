package controllers

import (
	"fmt"

	courseModels "futurebound/models/course"
	"futurebound/services/progress"

	"gorm.io/gorm"
)

// deleteLessons hard-deletes lessons together with their ledger rows.
func deleteLessons(tx *gorm.DB, lessonIDs []uint) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	if err := tx.Unscoped().Where("lesson_id IN ?", lessonIDs).Delete(&courseModels.Progress{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Where("id IN ?", lessonIDs).Delete(&courseModels.Lesson{}).Error
}

// deleteModules hard-deletes modules with their lessons, tasks and quizzes.
func deleteModules(tx *gorm.DB, moduleIDs []uint) error {
	if len(moduleIDs) == 0 {
		return nil
	}
	var lessonIDs []uint
	if err := tx.Unscoped().Model(&courseModels.Lesson{}).Where("module_id IN ?", moduleIDs).Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}
	if err := deleteLessons(tx, lessonIDs); err != nil {
		return err
	}
	if err := tx.Unscoped().Where("module_id IN ?", moduleIDs).Delete(&courseModels.Task{}).Error; err != nil {
		return err
	}

	var quizIDs []uint
	if err := tx.Unscoped().Model(&courseModels.Quiz{}).Where("module_id IN ?", moduleIDs).Pluck("id", &quizIDs).Error; err != nil {
		return err
	}
	if len(quizIDs) > 0 {
		for _, m := range []interface{}{&courseModels.QuizAttempt{}, &courseModels.QuizQuestion{}} {
			if err := tx.Unscoped().Where("quiz_id IN ?", quizIDs).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("id IN ?", quizIDs).Delete(&courseModels.Quiz{}).Error; err != nil {
			return err
		}
	}
	return tx.Unscoped().Where("id IN ?", moduleIDs).Delete(&courseModels.Module{}).Error
}

// deleteCourse removes a course and everything that hangs off it.
func deleteCourse(tx *gorm.DB, courseID uint) error {
	var enrollmentIDs []uint
	if err := tx.Unscoped().Model(&courseModels.Enrollment{}).Where("course_id = ?", courseID).Pluck("id", &enrollmentIDs).Error; err != nil {
		return err
	}
	if err := progress.PurgeEnrollments(tx, enrollmentIDs); err != nil {
		return fmt.Errorf("purge enrollments: %w", err)
	}

	var moduleIDs []uint
	if err := tx.Unscoped().Model(&courseModels.Module{}).Where("course_id = ?", courseID).Pluck("id", &moduleIDs).Error; err != nil {
		return err
	}
	if err := deleteModules(tx, moduleIDs); err != nil {
		return fmt.Errorf("delete modules: %w", err)
	}

	if err := tx.Unscoped().Where("course_id = ?", courseID).Delete(&courseModels.Review{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&courseModels.Course{}, courseID).Error
}
