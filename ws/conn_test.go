package ws

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// overlapConn phát hiện hai goroutine ghi chồng lên nhau
type overlapConn struct {
	active  atomic.Bool
	overlap atomic.Bool
	writes  atomic.Int64
}

func (o *overlapConn) enter() {
	if !o.active.CompareAndSwap(false, true) {
		o.overlap.Store(true)
	}
	time.Sleep(100 * time.Microsecond)
	o.active.Store(false)
	o.writes.Add(1)
}

func (o *overlapConn) WriteJSON(v interface{}) error {
	o.enter()
	return nil
}

func (o *overlapConn) WriteMessage(messageType int, data []byte) error {
	o.enter()
	return nil
}

func (o *overlapConn) Close() error { return nil }

// registry broadcast và các ghi trực tiếp của handler (pong, refresh) phải
// không bao giờ chạy đồng thời trên cùng một connection
func TestLockedConnSerializesBroadcastAndDirectWrites(t *testing.T) {
	raw := &overlapConn{}
	conn := NewLockedConn(raw)

	r := NewTicketRegistry()
	r.Subscribe(1, conn)

	const rounds = 30
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				r.Broadcast(1, "update")
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < rounds; j++ {
			conn.WriteMessage(1, []byte("pong"))
			conn.WriteJSON("refresh")
		}
	}()
	wg.Wait()

	assert.False(t, raw.overlap.Load(), "concurrent writes reached the connection")
	assert.Equal(t, int64(3*rounds+2*rounds), raw.writes.Load())
}

func TestLockedConnSessionSend(t *testing.T) {
	raw := &overlapConn{}
	conn := NewLockedConn(raw)

	r := NewSessionRegistry()
	r.Register("sess", conn)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 30; j++ {
				r.Send("sess", "notification")
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 30; j++ {
			conn.WriteMessage(1, []byte("pong"))
		}
	}()
	wg.Wait()

	assert.False(t, raw.overlap.Load())
}
