package controllers

import (
	"futurebound/database"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	"futurebound/services/certificate"
	"futurebound/utils"
	userValidator "futurebound/validators/userValidator"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

// IssueCertificate returns the caller's certificate for a completed
// enrollment, issuing it on the first request.
func IssueCertificate(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	cert, created, err := certificate.Issue(database.Database.Db, user.ID, shared.ID(c, "enrollment_id"))
	if err != nil {
		return respondError(c, err, "Failed to issue certificate!", nil)
	}

	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate already issued!", cert)
	}

	var e courseModels.Enrollment
	if err := database.Database.Db.Preload("Course").First(&e, cert.EnrollmentID).Error; err == nil && e.Course != nil {
		utils.SendCertificateEmail(user.Email, user.Name, e.Course.Title, cert.CertificateID)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", cert)
}

type certificateRow struct {
	courseModels.Certificate
	CourseID    uint   `json:"course_id"`
	CourseTitle string `json:"course_title"`
}

func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedQuery").(*userValidator.CertificateListQuery)
	page, limit, offset := reqData.Offset(10)

	db := database.Database.Db.Model(&courseModels.Certificate{}).
		Joins("JOIN enrollments ON enrollments.id = certificates.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return respondError(c, err, "Failed to fetch certificates!", nil)
	}

	var rows []certificateRow
	if err := db.Select("certificates.*, courses.id AS course_id, courses.title AS course_title").
		Order("certificates.issued_at desc").
		Offset(offset).Limit(limit).
		Scan(&rows).Error; err != nil {
		return respondError(c, err, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": rows,
		"pagination":   middleware.PageMeta(total, page, limit),
	})
}
