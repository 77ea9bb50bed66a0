package helper

import (
	"errors"
	"fmt"
	"log"
	"time"

	"queue_manager/model"
	"queue_manager/ws"

	"gorm.io/gorm"
)

// registry dùng chung cho handler websocket và background monitor
var (
	TicketSubscribers = ws.NewTicketRegistry()
	SessionChannels   = ws.NewSessionRegistry()
)

// thời gian phục vụ ước tính mỗi người, tính bằng phút
const (
	waitPerPersonLive = 2

	// WaitPerPersonPosition dùng cho endpoint position, ước tính thận trọng hơn
	WaitPerPersonPosition = 5
)

// BuildTicketPayload dựng message websocket cho một ticket:
// position, số người đứng trước, tên queue và thời gian chờ ước tính
func BuildTicketPayload(tx *gorm.DB, ticketId uint, msgType string) (model.TicketWireMessage, error) {
	var ticket model.Ticket
	err := tx.Preload("Queue").Where("id = ?", ticketId).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.TicketWireMessage{
				Type:     msgType,
				TicketId: ticketId,
				Status:   "not_found",
			}, nil
		}
		return model.TicketWireMessage{}, err
	}

	ahead, err := PeopleAhead(tx, &ticket)
	if err != nil {
		return model.TicketWireMessage{}, err
	}

	estimated := ahead * waitPerPersonLive
	letter := "A"
	if ticket.Queue.Name != "" {
		letter = string(ticket.Queue.Name[0])
	}

	return model.TicketWireMessage{
		Type:              msgType,
		TicketId:          ticket.ID,
		TicketNumber:      TicketDisplayNumber(ticket.Queue.Name, ticket.Position),
		Position:          ticket.Position,
		PeopleAhead:       ahead,
		QueueName:         fmt.Sprintf("Queue %s", ticket.Queue.Name),
		QueueLetter:       letter,
		EstimatedWaitTime: &estimated,
		Status:            ticket.Status,
		Timestamp:         time.Now().Format(time.RFC3339),
	}, nil
}

// TicketDisplayNumber trả về số hiển thị dạng "A-003"
func TicketDisplayNumber(queueName string, position int) string {
	letter := "A"
	if queueName != "" {
		letter = string(queueName[0])
	}
	return fmt.Sprintf("%s-%03d", letter, position)
}

func NotifyTicketCreated(tx *gorm.DB, ticketId uint) {
	notifyTicket(tx, ticketId, model.WSTicketInfo)
}

func NotifyTicketUpdate(tx *gorm.DB, ticketId uint) {
	notifyTicket(tx, ticketId, model.WSTicketUpdated)
}

func NotifyTicketCalled(tx *gorm.DB, ticketId uint) {
	notifyTicket(tx, ticketId, model.WSTicketCalled)
}

func NotifyTicketCompleted(tx *gorm.DB, ticketId uint) {
	notifyTicket(tx, ticketId, model.WSTicketCompleted)
}

func notifyTicket(tx *gorm.DB, ticketId uint, msgType string) {
	payload, err := BuildTicketPayload(tx, ticketId, msgType)
	if err != nil {
		log.Printf("Error building payload for ticket %d: %v", ticketId, err)
		return
	}
	TicketSubscribers.Broadcast(ticketId, payload)
}

// NotifyQueueUpdate đẩy trạng thái mới cho mọi ticket còn trong queue,
// kèm một message tổng kết queue, dùng sau call-next / reset / xoá queue
func NotifyQueueUpdate(tx *gorm.DB, queueId uint) {
	var tickets []model.Ticket
	err := tx.Where("queue_id = ? AND is_deleted = ?", queueId, false).Find(&tickets).Error
	if err != nil {
		log.Printf("Error loading tickets of queue %d for broadcast: %v", queueId, err)
		return
	}

	summary := model.QueueWireMessage{
		Type:        model.WSQueueUpdated,
		QueueId:     queueId,
		TicketCount: int64(len(tickets)),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	for _, t := range tickets {
		NotifyTicketUpdate(tx, t.ID)
		TicketSubscribers.Broadcast(t.ID, summary)
	}
}

// SendSessionNotification ghi outbox trước rồi mới thử đẩy live qua websocket.
// Ghi trước đảm bảo client offline vẫn nhận được khi poll hoặc reconnect.
func SendSessionNotification(db *gorm.DB, ticketId uint, sessionId, message, notificationType string) error {
	notification := model.Notification{
		TicketId:  ticketId,
		SessionId: sessionId,
		Message:   message,
		Type:      notificationType,
	}
	if err := db.Create(&notification).Error; err != nil {
		return err
	}

	delivered := SessionChannels.Send(sessionId, model.NotificationWireMessage{
		Type:      model.WSNotification,
		Data:      notification,
		Timestamp: notification.CreatedAt.Format(time.RFC3339),
	})
	if delivered {
		now := time.Now()
		if err := db.Model(&notification).Updates(map[string]interface{}{"is_sent": true, "sent_at": now}).Error; err != nil {
			log.Printf("Error marking notification %d sent: %v", notification.ID, err)
		}
	}
	return nil
}
