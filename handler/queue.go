package handler

import (
	"errors"

	"queue_manager/constants"
	"queue_manager/database"
	"queue_manager/helper"
	"queue_manager/model"
	"queue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func CreateQueue(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateQueueInput)

	db := database.DB
	tx := db.Begin()

	var event model.Event
	if err := tx.Where("id = ? AND is_deleted = ?", input.EventId, false).First(&event).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.EVENT_NOT_FOUND, err)
	}

	var existing []model.Queue
	if err := tx.Where("event_id = ? AND is_deleted = ?", input.EventId, false).Find(&existing).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	queue := model.Queue{
		EventId: input.EventId,
		Name:    helper.GenerateQueueName(existing),
		Active:  active,
	}

	if err := tx.Create(&queue).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	tx.Commit()

	return utils.SuccessResponse(c, fiber.StatusCreated, queue)
}

func GetQueuesByEvent(c *fiber.Ctx) error {
	eventId := c.Locals("inputId").(int)

	var queues []model.Queue
	err := database.DB.Where("event_id = ? AND is_deleted = ?", eventId, false).
		Order("name ASC").
		Find(&queues).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, queues)
}

func GetQueueById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	var queue model.Queue
	err := database.DB.Where("id = ? AND is_deleted = ?", id, false).First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUEUE_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, queue)
}

func UpdateQueue(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.UpdateQueueInput)

	db := database.DB
	var queue model.Queue
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUEUE_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	// tên queue phải unique trong event
	if input.Name != nil && *input.Name != queue.Name {
		var count int64
		db.Model(&model.Queue{}).
			Where("event_id = ? AND name = ? AND is_deleted = ? AND id != ?", queue.EventId, *input.Name, false, queue.ID).
			Count(&count)
		if count > 0 {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.QUEUE_NAME_EXISTS, errors.New("queue name already used in this event"))
		}
	}

	copier.Copy(&queue, &input)

	if err := db.Save(&queue).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, queue)
}

func GetQueueStatus(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	db := database.DB
	var queue model.Queue
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUEUE_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	status := model.QueueStatus{
		QueueId:         queue.ID,
		Name:            queue.Name,
		CurrentPosition: queue.CurrentPosition,
		Active:          queue.Active,
	}

	base := db.Model(&model.Ticket{}).Where("queue_id = ? AND is_deleted = ?", queue.ID, false)
	base.Session(&gorm.Session{}).Count(&status.TotalTickets)
	base.Session(&gorm.Session{}).Where("status = ?", model.TicketWaiting).Count(&status.WaitingCount)
	base.Session(&gorm.Session{}).Where("status = ?", model.TicketCalled).Count(&status.ProcessingCount)
	base.Session(&gorm.Session{}).Where("status = ?", model.TicketCompleted).Count(&status.CompletedCount)

	return utils.SuccessResponse(c, fiber.StatusOK, status)
}

// CallNext tăng bảng số "đang phục vụ" của queue. Con số này độc lập với
// ticket position, không đánh dấu vé nào là đã gọi.
func CallNext(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	db := database.DB
	var queue model.Queue
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUEUE_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	queue.CurrentPosition++
	if err := db.Save(&queue).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	helper.NotifyQueueUpdate(db, queue.ID)

	return utils.SuccessResponse(c, fiber.StatusOK, queue)
}

func ResetQueue(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	db := database.DB
	var queue model.Queue
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUEUE_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	queue.CurrentPosition = 0
	if err := db.Save(&queue).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	helper.NotifyQueueUpdate(db, queue.ID)

	return utils.SuccessResponse(c, fiber.StatusOK, queue)
}

// DeleteQueue xoá queue, có thể chuyển toàn bộ vé chưa xoá sang queue khác.
// Vé chuyển đi được đánh lại position theo created_at cùng vé sẵn có ở queue đích.
func DeleteQueue(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.DeleteQueueInput)

	db := database.DB
	tx := db.Begin()

	var queue model.Queue
	if err := tx.First(&queue, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUEUE_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var targetId uint
	if input.MoveTicketsTo != nil {
		targetId = *input.MoveTicketsTo
		if targetId == queue.ID {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.SAME_TARGET_QUEUE, errors.New("cannot move tickets into the queue being deleted"))
		}

		target, err := helper.LockQueue(tx, targetId)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, helper.ErrNotFound) {
				return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TARGET_QUEUE_NOT_FOUND, err)
			}
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}

		var moved []model.Ticket
		if err := tx.Where("queue_id = ? AND is_deleted = ?", queue.ID, false).
			Order("created_at ASC").
			Find(&moved).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}

		if err := helper.RenumberInto(tx, target.ID, moved); err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	if input.HardDelete {
		if err := tx.Delete(&queue).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	} else {
		queue.IsDeleted = true
		queue.Active = false
		if err := tx.Save(&queue).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	tx.Commit()

	if input.MoveTicketsTo != nil {
		helper.NotifyQueueUpdate(db, targetId)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
