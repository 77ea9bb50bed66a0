package handler

import (
	"log"
	"strconv"
	"time"

	"queue_manager/database"
	"queue_manager/helper"
	"queue_manager/model"
	"queue_manager/ws"

	"github.com/gofiber/contrib/websocket"
)

// heartbeatInterval là chu kỳ đẩy lại trạng thái + ping khi client im lặng
const heartbeatInterval = 30 * time.Second

// TicketWS stream trạng thái một vé: push khi có thay đổi, heartbeat mỗi 30s.
// Client gửi "ping" nhận "pong", gửi "refresh" nhận payload mới.
// Mọi ghi đi qua LockedConn vì registry broadcast chạy từ goroutine khác.
func TicketWS(c *websocket.Conn) {
	idStr := c.Params("ticketId")
	id64, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		c.Close()
		return
	}
	ticketId := uint(id64)

	conn := ws.NewLockedConn(c)
	helper.TicketSubscribers.Subscribe(ticketId, conn)
	done := make(chan struct{})

	defer func() {
		close(done)
		helper.TicketSubscribers.Unsubscribe(ticketId, conn)
		conn.Close()
	}()

	// trạng thái ban đầu ngay khi connect
	payload, err := helper.BuildTicketPayload(database.DB, ticketId, model.WSTicketInfo)
	if err != nil {
		log.Printf("Error building initial payload for ticket %d: %v", ticketId, err)
		return
	}
	if err := conn.WriteJSON(payload); err != nil {
		return
	}

	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				payload, err := helper.BuildTicketPayload(database.DB, ticketId, model.WSTicketUpdated)
				if err != nil {
					log.Printf("Error building heartbeat payload for ticket %d: %v", ticketId, err)
					continue
				}
				helper.TicketSubscribers.Broadcast(ticketId, payload)
				if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		switch string(msg) {
		case "ping":
			if err := conn.WriteMessage(websocket.TextMessage, []byte("pong")); err != nil {
				return
			}
		case "refresh":
			payload, err := helper.BuildTicketPayload(database.DB, ticketId, model.WSTicketInfo)
			if err != nil {
				log.Printf("Error refreshing payload for ticket %d: %v", ticketId, err)
				continue
			}
			if err := conn.WriteJSON(payload); err != nil {
				return
			}
		}
	}
}

// NotificationWS là kênh cá nhân theo session: connect xong sẽ xả hết outbox
// chưa gửi rồi giữ connection nhận notification mới
func NotificationWS(c *websocket.Conn) {
	sessionId := c.Params("sessionId")
	if sessionId == "" {
		c.Close()
		return
	}

	conn := ws.NewLockedConn(c)
	helper.SessionChannels.Register(sessionId, conn)
	defer func() {
		helper.SessionChannels.Unregister(sessionId)
		conn.Close()
	}()

	if err := conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "Connected to notifications for session " + sessionId,
	}); err != nil {
		return
	}

	// xả outbox cho client vừa online lại
	db := database.DB
	var unsent []model.Notification
	err := db.Where("session_id = ? AND is_sent = ?", sessionId, false).
		Order("created_at ASC").
		Find(&unsent).Error
	if err != nil {
		log.Printf("Error loading unsent notifications for %s: %v", sessionId, err)
	} else {
		for _, n := range unsent {
			err := conn.WriteJSON(model.NotificationWireMessage{
				Type:      model.WSNotification,
				Data:      n,
				Timestamp: n.CreatedAt.Format(time.RFC3339),
			})
			if err != nil {
				return
			}
			now := time.Now()
			if err := db.Model(&n).Updates(map[string]interface{}{"is_sent": true, "sent_at": now}).Error; err != nil {
				log.Printf("Error marking notification %d sent: %v", n.ID, err)
			}
		}
	}

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}
		if string(msg) == "ping" {
			if err := conn.WriteMessage(websocket.TextMessage, []byte("pong")); err != nil {
				return
			}
		}
	}
}
