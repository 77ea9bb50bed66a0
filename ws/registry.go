package ws

import "sync"

// Conn là phần của *websocket.Conn mà registry cần, để test không phải mở socket thật
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// TicketRegistry giữ các connection đang theo dõi từng ticket.
// Một ticket có thể có nhiều tab/thiết bị cùng xem.
type TicketRegistry struct {
	mu   sync.Mutex
	subs map[uint]map[Conn]bool
}

func NewTicketRegistry() *TicketRegistry {
	return &TicketRegistry{subs: make(map[uint]map[Conn]bool)}
}

func (r *TicketRegistry) Subscribe(ticketId uint, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs[ticketId] == nil {
		r.subs[ticketId] = make(map[Conn]bool)
	}
	r.subs[ticketId][c] = true
}

func (r *TicketRegistry) Unsubscribe(ticketId uint, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs[ticketId] != nil {
		delete(r.subs[ticketId], c)
		if len(r.subs[ticketId]) == 0 {
			delete(r.subs, ticketId)
		}
	}
}

// Broadcast gửi payload cho mọi subscriber của ticket.
// Connection nào lỗi thì đóng và gỡ khỏi set, các connection còn lại vẫn nhận.
func (r *TicketRegistry) Broadcast(ticketId uint, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for conn := range r.subs[ticketId] {
		if err := conn.WriteJSON(payload); err != nil {
			conn.Close()
			delete(r.subs[ticketId], conn)
		}
	}
	if len(r.subs[ticketId]) == 0 {
		delete(r.subs, ticketId)
	}
}

func (r *TicketRegistry) SubscriberCount(ticketId uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[ticketId])
}

// SessionRegistry giữ tối đa một connection cá nhân cho mỗi session
type SessionRegistry struct {
	mu    sync.Mutex
	conns map[string]Conn
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{conns: make(map[string]Conn)}
}

func (r *SessionRegistry) Register(sessionId string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[sessionId] = c
}

func (r *SessionRegistry) Unregister(sessionId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, sessionId)
}

// Send gửi payload cho session, trả về true nếu gửi được.
// Connection lỗi bị gỡ luôn, lần sau client phải connect lại.
func (r *SessionRegistry) Send(sessionId string, payload interface{}) bool {
	r.mu.Lock()
	conn, ok := r.conns[sessionId]
	r.mu.Unlock()
	if !ok {
		return false
	}
	if err := conn.WriteJSON(payload); err != nil {
		conn.Close()
		r.Unregister(sessionId)
		return false
	}
	return true
}

func (r *SessionRegistry) Connected(sessionId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.conns[sessionId]
	return ok
}
