package handler

import (
	"errors"
	"fmt"
	"log"
	"time"

	"queue_manager/config"
	"queue_manager/constants"
	"queue_manager/database"
	"queue_manager/helper"
	"queue_manager/model"
	"queue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// CreateTicket là đường public: tự động xếp vé vào queue ít tải nhất của event.
// Gọi lại với cùng session sẽ trả về vé đang chờ thay vì tạo mới.
func CreateTicket(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateTicketInput)

	db := database.DB
	tx := db.Begin()

	var existing model.Ticket
	err := tx.Joins("JOIN queues ON queues.id = tickets.queue_id").
		Joins("JOIN events ON events.id = queues.event_id").
		Where("events.code = ? AND tickets.session_id = ? AND tickets.is_deleted = ? AND tickets.status IN ?",
			input.EventCode, input.SessionId, false, []string{model.TicketWaiting, model.TicketCalled}).
		First(&existing).Error
	if err == nil {
		tx.Rollback()
		return utils.SuccessResponse(c, fiber.StatusOK, model.CreateTicketResponse{
			Ticket:     existing,
			IsExisting: true,
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var event model.Event
	err = tx.Where("code = ? AND is_deleted = ? AND active = ?", input.EventCode, false, true).
		First(&event).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.EVENT_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var queues []model.Queue
	err = tx.Where("event_id = ? AND is_deleted = ? AND active = ?", event.ID, false, true).
		Find(&queues).Error
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	leastLoaded, err := helper.FindLeastLoadedQueue(tx, queues)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if leastLoaded == nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.NO_ACTIVE_QUEUE, helper.ErrUnavailable)
	}

	// giữ row queue tới khi commit để hai request song song không lấy trùng position
	if _, err := helper.LockQueue(tx, leastLoaded.ID); err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	position, err := helper.NextPosition(tx, leastLoaded.ID)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	ticket := model.Ticket{
		QueueId:   leastLoaded.ID,
		SessionId: input.SessionId,
		Position:  position,
		Status:    model.TicketWaiting,
		Notes:     input.Notes,
	}
	if err := tx.Create(&ticket).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	tx.Commit()

	helper.NotifyTicketCreated(db, ticket.ID)

	return utils.SuccessResponse(c, fiber.StatusCreated, model.CreateTicketResponse{
		Ticket:     ticket,
		IsExisting: false,
	})
}

func GetTicketsByQueue(c *fiber.Ctx) error {
	queueId := c.Locals("inputId").(int)

	var tickets []model.Ticket
	err := database.DB.Where("queue_id = ? AND is_deleted = ?", queueId, false).
		Order("position ASC").
		Find(&tickets).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, tickets)
}

func GetTicketsBySession(c *fiber.Ctx) error {
	sessionId := c.Params("sessionId")
	if sessionId == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, errors.New("missing session id"))
	}

	var tickets []model.Ticket
	err := database.DB.Where("session_id = ? AND is_deleted = ?", sessionId, false).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, tickets)
}

func GetTicketById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	var ticket model.Ticket
	err := database.DB.Where("id = ? AND is_deleted = ?", id, false).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

func loadTicket(db *gorm.DB, id int) (*model.Ticket, error) {
	var ticket model.Ticket
	err := db.Where("id = ? AND is_deleted = ?", id, false).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// applyTransition kiểm tra bảng chuyển trạng thái rồi lưu. Chuyển về đúng
// trạng thái hiện tại là no-op thành công (re-cancel im lặng), trả về false
// để caller không broadcast hay ghi outbox lặp.
func applyTransition(db *gorm.DB, ticket *model.Ticket, to string, notes *string) (bool, error) {
	if ticket.Status == to {
		return false, nil
	}
	if !model.CanTransition(ticket.Status, to) {
		return false, helper.ErrConflict
	}

	now := time.Now()
	ticket.Status = to
	switch to {
	case model.TicketCalled:
		ticket.CalledAt = &now
	case model.TicketCompleted:
		ticket.CompletedAt = &now
	}
	if notes != nil {
		ticket.Notes = notes
	}
	if err := db.Save(ticket).Error; err != nil {
		return false, err
	}
	return true, nil
}

func CallTicket(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.TicketActionInput)

	db := database.DB
	ticket, err := loadTicket(db, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	changed, err := applyTransition(db, ticket, model.TicketCalled, input.Notes)
	if err != nil {
		if errors.Is(err, helper.ErrConflict) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVALID_STATUS_CHANGE, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if changed {
		helper.NotifyTicketCalled(db, ticket.ID)
		err = helper.SendSessionNotification(db, ticket.ID, ticket.SessionId,
			"Your ticket has been called! Please proceed to the counter.", model.NotificationCalled)
		if err != nil {
			// vé đã chuyển trạng thái, lỗi gửi thông báo chỉ log
			log.Printf("Error sending call notification for ticket %d: %v", ticket.ID, err)
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

func CompleteTicket(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.TicketActionInput)

	db := database.DB
	ticket, err := loadTicket(db, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	changed, err := applyTransition(db, ticket, model.TicketCompleted, input.Notes)
	if err != nil {
		if errors.Is(err, helper.ErrConflict) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVALID_STATUS_CHANGE, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if changed {
		helper.NotifyTicketCompleted(db, ticket.ID)
		err = helper.SendSessionNotification(db, ticket.ID, ticket.SessionId,
			"Service completed. Thank you!", model.NotificationCompleted)
		if err != nil {
			log.Printf("Error sending completion notification for ticket %d: %v", ticket.ID, err)
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

func CancelTicket(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.TicketActionInput)

	db := database.DB
	ticket, err := loadTicket(db, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	changed, err := applyTransition(db, ticket, model.TicketCancelled, input.Notes)
	if err != nil {
		if errors.Is(err, helper.ErrConflict) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVALID_STATUS_CHANGE, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if changed {
		helper.NotifyTicketUpdate(db, ticket.ID)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

// CancelTicketPublic là đường tự phục vụ: session phải trùng chủ vé
func CancelTicketPublic(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.CancelTicketInput)

	db := database.DB
	ticket, err := loadTicket(db, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if ticket.SessionId != input.SessionId {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_TICKET_OWNER, helper.ErrForbidden)
	}

	changed, err := applyTransition(db, ticket, model.TicketCancelled, input.Notes)
	if err != nil {
		if errors.Is(err, helper.ErrConflict) {
			return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVALID_STATUS_CHANGE, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if changed {
		helper.NotifyTicketUpdate(db, ticket.ID)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

func UpdateTicketPublic(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.UpdateTicketPublicInput)

	db := database.DB
	ticket, err := loadTicket(db, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if ticket.SessionId != input.SessionId {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_TICKET_OWNER, helper.ErrForbidden)
	}

	if input.Notes != nil {
		ticket.Notes = input.Notes
		if err := db.Save(ticket).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

// UpdateTicket là đường admin: được set thẳng status bất kỳ, bỏ qua bảng chuyển trạng thái
func UpdateTicket(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.UpdateTicketInput)

	db := database.DB
	ticket, err := loadTicket(db, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	copier.Copy(ticket, &input)

	if input.Status != nil {
		now := time.Now()
		switch *input.Status {
		case model.TicketCalled:
			if ticket.CalledAt == nil {
				ticket.CalledAt = &now
			}
		case model.TicketCompleted:
			if ticket.CompletedAt == nil {
				ticket.CompletedAt = &now
			}
		}
	}

	if err := db.Save(ticket).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	helper.NotifyTicketUpdate(db, ticket.ID)

	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

// MoveTicket đưa vé sang queue khác, đánh lại position cả queue đích
// theo created_at và trả vé về trạng thái waiting
func MoveTicket(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.MoveTicketInput)

	db := database.DB
	tx := db.Begin()

	ticket, err := loadTicket(tx, id)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	sourceQueueId := ticket.QueueId

	target, err := helper.LockQueue(tx, input.TargetQueueId)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TARGET_QUEUE_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if err := helper.RenumberInto(tx, target.ID, []model.Ticket{*ticket}); err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	tx.Commit()

	helper.NotifyQueueUpdate(db, target.ID)
	if sourceQueueId != target.ID {
		helper.NotifyQueueUpdate(db, sourceQueueId)
	}

	moved, err := loadTicket(db, id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, moved)
}

func DeleteTicket(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)
	input := c.Locals("input").(model.DeleteTicketInput)

	db := database.DB
	var ticket model.Ticket
	if err := db.First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	if input.HardDelete {
		if err := db.Delete(&ticket).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	} else {
		ticket.IsDeleted = true
		if err := db.Save(&ticket).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// GetTicketPosition trả về số người đứng trước và thời gian chờ ước tính
func GetTicketPosition(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	db := database.DB
	ticket, err := loadTicket(db, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	ahead, err := helper.PeopleAhead(db, ticket)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.TicketPositionInfo{
		TicketId:          ticket.ID,
		QueueId:           ticket.QueueId,
		Position:          ticket.Position,
		AheadCount:        ahead,
		EstimatedWaitTime: ahead * helper.WaitPerPersonPosition,
	})
}

// TicketQR trả về PNG mã QR trỏ tới trang theo dõi vé
func TicketQR(c *fiber.Ctx) error {
	id := c.Locals("inputId").(int)

	db := database.DB
	ticket, err := loadTicket(db, id)
	if err != nil {
		if errors.Is(err, helper.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.TICKET_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	baseURL := config.ConfigDefault("PUBLIC_BASE_URL", "http://localhost:5173")
	content := fmt.Sprintf("%s/ticket/%d", baseURL, ticket.ID)

	png, err := utils.GenerateQRCode(content, 256)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}
