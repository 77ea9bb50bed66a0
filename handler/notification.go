package handler

import (
	"errors"
	"time"

	"queue_manager/constants"
	"queue_manager/database"
	"queue_manager/model"
	"queue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetUnsentNotifications là polling fallback cho client không giữ được websocket
func GetUnsentNotifications(c *fiber.Ctx) error {
	sessionId := c.Params("sessionId")
	if sessionId == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, errors.New("missing session id"))
	}

	var notifications []model.Notification
	err := database.DB.Where("session_id = ? AND is_sent = ?", sessionId, false).
		Order("created_at ASC").
		Find(&notifications).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, notifications)
}

func MarkNotificationSent(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	db := database.DB
	var notification model.Notification
	if err := db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOTIFICATION_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	now := time.Now()
	err := db.Model(&notification).Updates(map[string]interface{}{"is_sent": true, "sent_at": now}).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, notification)
}
