package model

import "time"

const (
	TicketWaiting   = "waiting"
	TicketCalled    = "called"
	TicketCompleted = "completed"
	TicketCancelled = "cancelled"
)

// các chuyển trạng thái hợp lệ, trạng thái giữ nguyên luôn được chấp nhận (no-op)
var allowedTransitions = map[string][]string{
	TicketWaiting:   {TicketCalled, TicketCancelled},
	TicketCalled:    {TicketCompleted, TicketCancelled},
	TicketCompleted: {},
	TicketCancelled: {},
}

func IsValidTicketStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Ticket struct {
	DTO
	QueueId     uint       `gorm:"not null;index" json:"queueId"`
	SessionId   string     `gorm:"size:100;not null;index" json:"sessionId"`
	Position    int        `gorm:"not null" json:"position"`
	Status      string     `gorm:"size:20;not null;default:'waiting'" json:"status"`
	Notes       *string    `json:"notes,omitempty"`
	IsDeleted   bool       `gorm:"default:false" json:"isDeleted"`
	CalledAt    *time.Time `json:"calledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Queue Queue `gorm:"foreignKey:QueueId" json:"-"`
}

type CreateTicketInput struct {
	EventCode string  `json:"eventCode" validate:"required,min=1,max=50"`
	SessionId string  `json:"sessionId" validate:"required,min=1,max=100"`
	Notes     *string `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateTicketInput struct {
	Status *string `json:"status" validate:"omitempty,oneof=waiting called completed cancelled"`
	Notes  *string `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateTicketPublicInput struct {
	SessionId string  `json:"sessionId" validate:"required,min=1,max=100"`
	Notes     *string `json:"notes" validate:"omitempty,max=1000"`
}

type CancelTicketInput struct {
	SessionId string  `json:"sessionId" validate:"required,min=1,max=100"`
	Notes     *string `json:"notes" validate:"omitempty,max=1000"`
}

type TicketActionInput struct {
	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

type MoveTicketInput struct {
	TargetQueueId uint `json:"targetQueueId" validate:"required,gt=0"`
}

type DeleteTicketInput struct {
	HardDelete bool `json:"hardDelete"`
}

type CreateTicketResponse struct {
	Ticket     Ticket `json:"ticket"`
	IsExisting bool   `json:"isExisting"`
}

type TicketPositionInfo struct {
	TicketId          uint  `json:"ticketId"`
	QueueId           uint  `json:"queueId"`
	Position          int   `json:"position"`
	AheadCount        int64 `json:"aheadCount"`
	EstimatedWaitTime int64 `json:"estimatedWaitTime"`
}
