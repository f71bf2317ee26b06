package web

import (
	"context"
	"log/slog"
	"net/http"
	"share-lab/contract"
	"share-lab/domain/event"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Frame is the envelope of every websocket message.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ThreadSafeWriter serializes writes on a websocket connection.
type ThreadSafeWriter struct {
	*websocket.Conn
	sync.Mutex
}

func NewThreadSafeWriter(conn *websocket.Conn) *ThreadSafeWriter {
	return &ThreadSafeWriter{Conn: conn}
}

func (t *ThreadSafeWriter) Send(deadline time.Time, evt string, data any) error {
	t.Lock()
	defer t.Unlock()
	if err := t.Conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return t.Conn.WriteJSON(Frame{Event: evt, Data: data})
}

func (t *ThreadSafeWriter) ping() error {
	t.Lock()
	defer t.Unlock()
	return t.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// SessionSink forwards domain events to one dashboard websocket. Events wait
// on ready so none is written before the initial view.
type SessionSink struct {
	writer *ThreadSafeWriter
	ready  <-chan struct{}
}

func (s SessionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	if s.ready != nil {
		select {
		case <-s.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(writeWait)
	}
	return s.writer.Send(deadline, e.Name(), e)
}

// SessionRegistry is where websocket sessions subscribe to domain events.
type SessionRegistry interface {
	RegisterSession(sessionID string, sink contract.EventSink)
	UnregisterSession(sessionID string)
}

// NewUpgrader accepts any origin since the dashboard page may be served elsewhere.
func NewUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// serveSession pushes the current view, then every domain event, until the
// client goes away. The session subscribes before the view is taken, events
// fanned out in between are held back and written after it.
func serveSession(c *gin.Context, log *slog.Logger, upgrader websocket.Upgrader, sessions SessionRegistry, initial func() Frame) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade HTTP to websocket", "err", err)
		return
	}
	writer := NewThreadSafeWriter(conn)
	defer writer.Close()

	sessionID := uuid.NewString()
	ready := make(chan struct{})
	release := sync.OnceFunc(func() { close(ready) })
	defer release()

	sessions.RegisterSession(sessionID, SessionSink{writer: writer, ready: ready})
	defer sessions.UnregisterSession(sessionID)

	frame := initial()
	if err := writer.Send(time.Now().Add(writeWait), frame.Event, frame.Data); err != nil {
		log.Warn("Initial frame not sent", "session", sessionID, "err", err)
		return
	}
	release()
	log.Info("Dashboard session opened", "session", sessionID)

	done := make(chan struct{})
	go keepAlive(writer, done)
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Dashboard session closed unexpectedly", "session", sessionID, "err", err)
			}
			log.Info("Dashboard session closed", "session", sessionID)
			return
		}
	}
}

func keepAlive(writer *ThreadSafeWriter, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := writer.ping(); err != nil {
				return
			}
		}
	}
}
