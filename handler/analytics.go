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

type EventAnalytics struct {
	EventId        uint             `json:"eventId"`
	QueueCount     int64            `json:"queueCount"`
	TotalTickets   int64            `json:"totalTickets"`
	TicketsByState map[string]int64 `json:"ticketsByStatus"`
}

type QueueAnalytics struct {
	QueueId           uint             `json:"queueId"`
	TicketsByState    map[string]int64 `json:"ticketsByStatus"`
	AvgWaitSeconds    float64          `json:"avgWaitSeconds"`
	AvgServiceSeconds float64          `json:"avgServiceSeconds"`
}

type DailyTicketVolume struct {
	Day   string `json:"day"`
	Total int64  `json:"total"`
}

func statusCounts(db *gorm.DB, where string, args ...interface{}) (map[string]int64, int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := db.Model(&model.Ticket{}).
		Select("status, COUNT(*) AS total").
		Where(where, args...).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	counts := map[string]int64{
		model.TicketWaiting:   0,
		model.TicketCalled:    0,
		model.TicketCompleted: 0,
		model.TicketCancelled: 0,
	}
	var total int64
	for _, r := range rows {
		counts[r.Status] = r.Total
		total += r.Total
	}
	return counts, total, nil
}

func GetEventAnalytics(c *fiber.Ctx) error {
	eventId := c.Locals("inputId").(int)

	db := database.DB
	var event model.Event
	if err := db.Where("id = ? AND is_deleted = ?", eventId, false).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.EVENT_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	analytics := EventAnalytics{EventId: event.ID}
	db.Model(&model.Queue{}).Where("event_id = ? AND is_deleted = ?", event.ID, false).Count(&analytics.QueueCount)

	counts, total, err := statusCounts(db,
		"queue_id IN (?) AND is_deleted = ?",
		db.Model(&model.Queue{}).Select("id").Where("event_id = ?", event.ID), false)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	analytics.TicketsByState = counts
	analytics.TotalTickets = total

	return utils.SuccessResponse(c, fiber.StatusOK, analytics)
}

func GetQueueAnalytics(c *fiber.Ctx) error {
	queueId := c.Locals("inputId").(int)

	db := database.DB
	var queue model.Queue
	if err := db.Where("id = ? AND is_deleted = ?", queueId, false).First(&queue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.QUEUE_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	counts, _, err := statusCounts(db, "queue_id = ? AND is_deleted = ?", queue.ID, false)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	analytics := QueueAnalytics{QueueId: queue.ID, TicketsByState: counts}

	// trung bình tính phía Go để chạy được trên cả postgres lẫn sqlite (test)
	var served []model.Ticket
	err = db.Where("queue_id = ? AND called_at IS NOT NULL", queue.ID).Find(&served).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var waitSum, serviceSum float64
	var waitN, serviceN int
	for _, t := range served {
		if t.CalledAt != nil {
			waitSum += t.CalledAt.Sub(t.CreatedAt).Seconds()
			waitN++
			if t.CompletedAt != nil {
				serviceSum += t.CompletedAt.Sub(*t.CalledAt).Seconds()
				serviceN++
			}
		}
	}
	if waitN > 0 {
		analytics.AvgWaitSeconds = waitSum / float64(waitN)
	}
	if serviceN > 0 {
		analytics.AvgServiceSeconds = serviceSum / float64(serviceN)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, analytics)
}

func GetTicketVolume(c *fiber.Ctx) error {
	eventId := c.Locals("inputId").(int)

	days := c.QueryInt("days", 7)
	if days <= 0 || days > 90 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	db := database.DB
	var rows []DailyTicketVolume
	err := db.Model(&model.Ticket{}).
		Select("DATE(tickets.created_at) AS day, COUNT(*) AS total").
		Joins("JOIN queues ON queues.id = tickets.queue_id").
		Where("queues.event_id = ? AND tickets.created_at >= ?", eventId, since).
		Group("DATE(tickets.created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, rows)
}
