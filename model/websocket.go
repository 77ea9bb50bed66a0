package model

// các loại message đẩy qua websocket
const (
	WSTicketInfo      = "ticket_info"
	WSTicketUpdated   = "ticket_updated"
	WSTicketCalled    = "ticket_called"
	WSTicketCompleted = "ticket_completed"
	WSNotification    = "notification"
	WSQueueUpdated    = "queue_updated"
)

// TicketWireMessage dùng snake_case theo format client đang parse
type TicketWireMessage struct {
	Type              string `json:"type"`
	TicketId          uint   `json:"ticket_id"`
	TicketNumber      string `json:"ticket_number"`
	Position          int    `json:"position"`
	PeopleAhead       int64  `json:"people_ahead"`
	QueueName         string `json:"queue_name"`
	QueueLetter       string `json:"queue_letter"`
	EstimatedWaitTime *int64 `json:"estimated_wait_time"`
	Status            string `json:"status"`
	Timestamp         string `json:"timestamp,omitempty"`
}

type QueueWireMessage struct {
	Type        string `json:"type"`
	QueueId     uint   `json:"queue_id"`
	TicketCount int64  `json:"ticket_count"`
	Timestamp   string `json:"timestamp,omitempty"`
}

type NotificationWireMessage struct {
	Type      string       `json:"type"`
	Data      Notification `json:"data"`
	Timestamp string       `json:"timestamp"`
}
