package model

import "time"

const (
	NotificationPositionAlert = "position_alert"
	NotificationCalled        = "called"
	NotificationCompleted     = "completed"
)

// Notification là outbox lưu tin nhắn chờ gửi cho client offline
type Notification struct {
	DTO
	TicketId  uint       `gorm:"not null;index" json:"ticketId"`
	SessionId string     `gorm:"size:100;not null;index" json:"sessionId"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Type      string     `gorm:"size:50;not null" json:"type"`
	IsSent    bool       `gorm:"default:false" json:"isSent"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
}
