package ws

import "sync"

// writeConn là phần ghi của *websocket.Conn mà wrapper cần khoá
type writeConn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// LockedConn tuần tự hoá mọi ghi lên một connection. fasthttp/websocket không
// cho phép hai goroutine ghi đồng thời, mà reader loop, heartbeat và registry
// broadcast đều có thể ghi cùng lúc, nên tất cả phải đi qua cùng một mutex.
type LockedConn struct {
	mu sync.Mutex
	c  writeConn
}

func NewLockedConn(c writeConn) *LockedConn {
	return &LockedConn{c: c}
}

func (l *LockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.WriteJSON(v)
}

func (l *LockedConn) WriteMessage(messageType int, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.WriteMessage(messageType, data)
}

func (l *LockedConn) Close() error {
	return l.c.Close()
}
