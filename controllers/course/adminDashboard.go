package controllers

import (
	"time"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	"futurebound/models"
	courseModels "futurebound/models/course"
	"futurebound/services/progress"
	"futurebound/utils"
	courseValidator "futurebound/validators/course"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

type enrollmentRow struct {
	courseModels.Enrollment
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// AdminGetCourseEnrollments lists the enrollments of the course in :id.
func AdminGetCourseEnrollments(c *fiber.Ctx) error {
	course, resp := findCourse(c)
	if course == nil {
		return resp
	}
	reqData := c.Locals("validatedEnrollmentList").(*courseValidator.EnrollmentListQuery)
	page, limit, offset := reqData.Offset(20)

	db := database.Database.Db.Model(&courseModels.Enrollment{}).
		Joins("JOIN users ON users.id = enrollments.user_id").
		Where("enrollments.course_id = ?", course.ID)
	if reqData.Status != "" {
		db = db.Where("enrollments.status = ?", reqData.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Log.Errorw("count enrollments failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	var rows []enrollmentRow
	if err := db.Select("enrollments.*, users.name AS user_name, users.email AS user_email").
		Order("enrollments.enrolled_at desc").
		Offset(offset).Limit(limit).
		Scan(&rows).Error; err != nil {
		logger.Log.Errorw("list enrollments failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"course":      course,
		"enrollments": rows,
		"pagination":  middleware.PageMeta(total, page, limit),
	})
}

// AdminCancelEnrollment moves the enrollment in :id to cancelled.
func AdminCancelEnrollment(c *fiber.Ctx) error {
	enrollment, err := progress.Cancel(database.Database.Db, shared.ID(c, "id"))
	if err != nil {
		return respondError(c, err, "Failed to cancel enrollment!", nil)
	}
	logger.Log.Infow("enrollment cancelled", "enrollment_id", enrollment.ID, "by", c.Locals("userId"))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment cancelled successfully!", enrollment)
}

// AdminReconcileEnrollments runs the progress reconciliation on demand.
func AdminReconcileEnrollments(c *fiber.Ctx) error {
	start := time.Now()
	drifted, err := progress.ReconcileAll(database.Database.Db)
	if err != nil {
		return respondError(c, err, "Failed to reconcile enrollments!", fiber.Map{"drifted": drifted})
	}
	logger.Log.Infow("manual reconciliation finished", "drifted", drifted, "took", time.Since(start))
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments reconciled successfully!", fiber.Map{
		"drifted": drifted,
	})
}

// AdminPurgeOTPs removes expired and used OTP challenges.
func AdminPurgeOTPs(c *fiber.Ctx) error {
	purged := utils.PurgeExpiredOTPs(database.Database.Db, time.Now())
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Expired OTPs purged.", fiber.Map{"purged": purged})
}

func AdminDashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, activeUsers, totalCourses, activeCourses, totalEnrollments, monthEnrollments, unreadMessages, certificates int64
	counts := []struct {
		name  string
		query func() error
	}{
		{"total users", func() error { return db.Model(&models.User{}).Count(&totalUsers).Error }},
		{"active users", func() error { return db.Model(&models.User{}).Where("is_active = ?", true).Count(&activeUsers).Error }},
		{"total courses", func() error { return db.Model(&courseModels.Course{}).Count(&totalCourses).Error }},
		{"active courses", func() error {
			return db.Model(&courseModels.Course{}).Where("is_active = ?", true).Count(&activeCourses).Error
		}},
		{"total enrollments", func() error { return db.Model(&courseModels.Enrollment{}).Count(&totalEnrollments).Error }},
		{"month enrollments", func() error {
			return db.Model(&courseModels.Enrollment{}).
				Where("enrolled_at BETWEEN ? AND ?", now.BeginningOfMonth(), now.EndOfMonth()).
				Count(&monthEnrollments).Error
		}},
		{"unread messages", func() error {
			return db.Model(&models.ContactMessage{}).Where("is_read = ?", false).Count(&unreadMessages).Error
		}},
		{"certificates", func() error { return db.Model(&courseModels.Certificate{}).Count(&certificates).Error }},
	}
	for _, q := range counts {
		if err := q.query(); err != nil {
			logger.Log.Errorw("dashboard count failed", "metric", q.name, "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
		}
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var rows []statusCount
	if err := db.Model(&courseModels.Enrollment{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		logger.Log.Errorw("dashboard status counts failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
	}
	byStatus := make(map[string]int64, len(courseModels.EnrollmentStatuses))
	for _, s := range courseModels.EnrollmentStatuses {
		byStatus[s] = 0
	}
	for _, r := range rows {
		byStatus[r.Status] = r.Count
	}

	var recent []enrollmentRow
	if err := db.Model(&courseModels.Enrollment{}).
		Select("enrollments.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Order("enrollments.enrolled_at desc").
		Limit(5).
		Scan(&recent).Error; err != nil {
		logger.Log.Errorw("dashboard recent enrollments failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"stats": fiber.Map{
			"total_users":            totalUsers,
			"active_users":           activeUsers,
			"total_courses":          totalCourses,
			"active_courses":         activeCourses,
			"inactive_courses":       totalCourses - activeCourses,
			"total_enrollments":      totalEnrollments,
			"enrollments_this_month": monthEnrollments,
			"enrollments_by_status":  byStatus,
			"unread_messages":        unreadMessages,
			"certificates_issued":    certificates,
		},
		"recent_enrollments": recent,
	})
}
