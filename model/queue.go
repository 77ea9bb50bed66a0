package model

type Queue struct {
	DTO
	EventId uint   `gorm:"not null;index" json:"eventId"`
	Name    string `gorm:"size:10;not null" json:"name"`
	Active  bool   `gorm:"default:true" json:"active"`
	// CurrentPosition là bảng số "đang phục vụ" do admin tăng, không trỏ tới ticket nào
	CurrentPosition int  `gorm:"default:0" json:"currentPosition"`
	IsDeleted       bool `gorm:"default:false" json:"isDeleted"`

	Event   Event    `gorm:"foreignKey:EventId" json:"-"`
	Tickets []Ticket `gorm:"foreignKey:QueueId" json:"-"`
}

type CreateQueueInput struct {
	EventId uint  `json:"eventId" validate:"required,gt=0"`
	Active  *bool `json:"active" validate:"omitempty"`
}

type UpdateQueueInput struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=10"`
	Active *bool   `json:"active" validate:"omitempty"`
}

type DeleteQueueInput struct {
	HardDelete    bool  `json:"hardDelete"`
	MoveTicketsTo *uint `json:"moveTicketsTo" validate:"omitempty,gt=0"`
}

type QueueStatus struct {
	QueueId         uint   `json:"queueId"`
	Name            string `json:"name"`
	CurrentPosition int    `json:"currentPosition"`
	WaitingCount    int64  `json:"waitingCount"`
	ProcessingCount int64  `json:"processingCount"`
	CompletedCount  int64  `json:"completedCount"`
	TotalTickets    int64  `json:"totalTickets"`
	Active          bool   `json:"active"`
}
