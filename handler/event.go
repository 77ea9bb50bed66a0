package handler

import (
	"errors"

	"queue_manager/constants"
	"queue_manager/database"
	"queue_manager/helper"
	"queue_manager/model"
	"queue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateEvent(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateEventInput)

	db := database.DB
	tx := db.Begin()

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	event := model.Event{
		Name:   input.Name,
		Code:   helper.GenerateEventCode(tx),
		Slug:   helper.GenerateUniqueEventSlug(tx, input.Name),
		Active: active,
	}

	if err := tx.Create(&event).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	tx.Commit()

	return utils.SuccessResponse(c, fiber.StatusCreated, event)
}

func GetEvents(c *fiber.Ctx) error {
	var pagination model.Pagination
	if err := c.QueryParser(&pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	}

	db := database.DB
	query := db.Model(&model.Event{}).Where("is_deleted = ?", false)

	var totalCount int64
	query.Count(&totalCount)

	var events []model.Event
	err := utils.ApplyPagination(query, pagination.Limit, pagination.Page).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       events,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

func GetEventById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	var event model.Event
	err := database.DB.Preload("Queues", "is_deleted = ?", false).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.EVENT_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, event)
}

func UpdateEvent(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.UpdateEventInput)

	db := database.DB
	var event model.Event
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.EVENT_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if input.Name != nil {
		event.Name = *input.Name
	}
	if input.Active != nil {
		event.Active = *input.Active
	}

	if err := db.Save(&event).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, event)
}

func DeleteEvent(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	hardDelete := c.Query("hard") == "true"

	db := database.DB
	var event model.Event
	if err := db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.EVENT_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if hardDelete {
		if err := db.Delete(&event).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	} else {
		event.IsDeleted = true
		event.Active = false
		if err := db.Save(&event).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
