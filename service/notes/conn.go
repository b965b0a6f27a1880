package notes

import (
	"sync"
	"time"

	usermodel "NProject/module/user/model"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1MB
)

// wsConn adapts a gorilla websocket to the Conn interface. Writes go
// through a buffered channel drained by a single writer goroutine; the
// identity is set at construction and immutable afterwards.
type wsConn struct {
	id       string
	identity *usermodel.Identity
	ws       *websocket.Conn
	send     chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newWSConn(id string, identity *usermodel.Identity, ws *websocket.Conn) *wsConn {
	return &wsConn{
		id:       id,
		identity: identity,
		ws:       ws,
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
	}
}

func (c *wsConn) ID() string                    { return c.id }
func (c *wsConn) Identity() *usermodel.Identity { return c.identity }

// Send enqueues a frame without blocking; a full queue means the client is
// too slow and the frame is dropped (delivery is at-most-once).
func (c *wsConn) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errors.New("connection closed")
	default:
		return errors.New("send queue full")
	}
}

// Close signals the writer goroutine to flush what is queued and close the
// socket. Safe to call more than once.
func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// writePump owns all writes to the socket: queued frames, pings, and the
// final close message.
func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			// Flush whatever is queued before closing, so a final
			// acknowledgement (e.g. delete-note) still goes out.
			for {
				select {
				case message := <-c.send:
					_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
						return
					}
				default:
					_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
					_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}
		}
	}
}
