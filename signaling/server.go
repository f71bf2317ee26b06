package signaling

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"share-lab/infrastructure/web"
	"share-lab/runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 5 * time.Second
	pongWait     = 10 * time.Second
	pingInterval = 2 * time.Second
	maxBeacon    = 4 << 10
)

type wsConn struct {
	writer *web.ThreadSafeWriter
}

func (c wsConn) Send(event string, data any) error {
	return c.writer.Send(time.Now().Add(writeWait), event, data)
}

type Server struct {
	log      *slog.Logger
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewServer(log *slog.Logger, hub *Hub) *Server {
	return &Server{log: log, hub: hub, upgrader: web.NewUpgrader()}
}

func (s *Server) Router() *gin.Engine {
	gin.DefaultWriter = runtime.NewLogWriter(s.log, "gin", false)
	gin.DefaultErrorWriter = runtime.NewLogWriter(s.log, "gin", true)

	r := gin.New()
	r.Use(gin.Recovery(), cors())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "receiver": s.hub.HasReceiver()})
	})
	r.GET("/ws", s.serveWS)
	r.POST("/api/left", s.left)
	r.OPTIONS("/api/left", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func (s *Server) serveWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("Failed to upgrade HTTP to websocket", "err", err)
		return
	}
	writer := web.NewThreadSafeWriter(conn)
	defer writer.Close()

	peer := NewPeer(uuid.NewString(), wsConn{writer: writer})
	defer s.hub.Disconnect(peer)
	s.log.Debug("Signaling peer connected", "peer", peer.ID)

	done := make(chan struct{})
	defer close(done)
	go s.keepAlive(writer, done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Signaling peer closed unexpectedly", "peer", peer.ID, "err", err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.log.Warn("Malformed signaling message", "peer", peer.ID, "err", err)
			continue
		}
		if err := s.hub.Handle(peer, msg); err != nil {
			s.log.Warn("Signaling message refused", "event", msg.Event, "peer", peer.ID, "err", err)
		}
	}
}

// keepAlive pings often so a closed tab is noticed within seconds.
func (s *Server) keepAlive(writer *web.ThreadSafeWriter, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			writer.Lock()
			err := writer.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			writer.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// left handles the sendBeacon fired when a sender tab closes. The body is
// JSON {id, name} or a bare name.
func (s *Server) left(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBeacon))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	id, name := parseBeacon(raw)
	if id == "" && name == "" {
		s.log.Info("Leave beacon without sender")
	} else {
		s.hub.Leave(id, name)
	}
	c.Status(http.StatusNoContent)
}

func parseBeacon(raw []byte) (id, name string) {
	body := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(body, "{") {
		return "", body
	}
	var ref struct {
		ID   string `json:"id"`
		SID  string `json:"sid"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(body), &ref); err != nil {
		return "", body
	}
	if ref.ID == "" {
		ref.ID = ref.SID
	}
	return ref.ID, ref.Name
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		}
		c.Next()
	}
}
