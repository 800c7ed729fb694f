package adminController

import (
	"errors"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	"futurebound/models"
	adminValidator "futurebound/validators/admin"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func MessageList(c *fiber.Ctx) error {
	reqData := c.Locals("validatedMessageList").(*adminValidator.MessageListQuery)
	page, limit, offset := reqData.Offset(20)

	db := database.Database.Db.Model(&models.ContactMessage{})
	if reqData.Unread {
		db = db.Where("is_read = ?", false)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Log.Errorw("count messages failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch messages!", nil)
	}

	var messages []models.ContactMessage
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		logger.Log.Errorw("list messages failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch messages!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Messages fetched successfully!", fiber.Map{
		"messages":   messages,
		"pagination": middleware.PageMeta(total, page, limit),
	})
}

func MarkMessageRead(c *fiber.Ctx) error {
	var message models.ContactMessage
	db := database.Database.Db
	if err := db.First(&message, shared.ID(c, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Message not found!", nil)
		}
		logger.Log.Errorw("load message failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update message!", nil)
	}

	if !message.IsRead {
		if err := db.Model(&message).Update("is_read", true).Error; err != nil {
			logger.Log.Errorw("mark message read failed", "message_id", message.ID, "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update message!", nil)
		}
		message.IsRead = true
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message marked as read!", message)
}
