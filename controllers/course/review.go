package controllers

import (
	"errors"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	courseValidator "futurebound/validators/course"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reviewRow struct {
	courseModels.Review
	UserName string `json:"user_name"`
}

type ratingStats struct {
	Average decimal.Decimal `json:"average"`
	Count   int64           `json:"count"`
}

func ratingSummary(db *gorm.DB, courseID uint) (ratingStats, error) {
	var row struct {
		Total int64
		Count int64
	}
	err := db.Model(&courseModels.Review{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Scan(&row).Error
	if err != nil {
		return ratingStats{}, err
	}
	stats := ratingStats{Average: decimal.Zero, Count: row.Count}
	if row.Count > 0 {
		stats.Average = decimal.NewFromInt(row.Total).Div(decimal.NewFromInt(row.Count)).Round(1)
	}
	return stats, nil
}

func recentReviews(db *gorm.DB, courseID uint, offset, limit int) ([]reviewRow, error) {
	var rows []reviewRow
	err := db.Model(&courseModels.Review{}).
		Select("reviews.*, users.name AS user_name").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.course_id = ?", courseID).
		Order("reviews.created_at desc").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func GetCourseReviews(c *fiber.Ctx) error {
	courseID := shared.ID(c, "id")
	reqData := c.Locals("validatedQuery").(*courseValidator.ReviewListQuery)
	page, limit, offset := reqData.Offset(10)
	db := database.Database.Db

	var total int64
	if err := db.Model(&courseModels.Review{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		logger.Log.Errorw("count reviews failed", "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}
	reviews, err := recentReviews(db, courseID, offset, limit)
	if err != nil {
		logger.Log.Errorw("list reviews failed", "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}
	rating, err := ratingSummary(db, courseID)
	if err != nil {
		logger.Log.Errorw("rating summary failed", "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", fiber.Map{
		"reviews":    reviews,
		"rating":     rating,
		"pagination": middleware.PageMeta(total, page, limit),
	})
}

// UpsertReview creates or replaces the caller's review. Only enrolled users may review.
func UpsertReview(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := shared.ID(c, "id")
	reqData := c.Locals("validatedReview").(*courseValidator.ReviewRequest)
	db := database.Database.Db

	var enrolled int64
	if err := db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status <> ?", userID, courseID, courseModels.StatusCancelled).
		Count(&enrolled).Error; err != nil {
		logger.Log.Errorw("enrollment check failed", "user_id", userID, "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save review!", nil)
	}
	if enrolled == 0 {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only enrolled users can review this course!", nil)
	}

	var review courseModels.Review
	created := false
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&review).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		review = courseModels.Review{UserID: userID, CourseID: courseID, Rating: reqData.Rating, ReviewText: reqData.ReviewText}
		err = db.Create(&review).Error
		created = true
	case err == nil:
		review.Rating = reqData.Rating
		review.ReviewText = reqData.ReviewText
		err = db.Model(&review).Updates(map[string]interface{}{"rating": review.Rating, "review_text": review.ReviewText}).Error
	}
	if err != nil {
		logger.Log.Errorw("save review failed", "user_id", userID, "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save review!", nil)
	}

	if created {
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", review)
}
