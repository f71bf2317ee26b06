package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"share-lab/auth"
	"share-lab/runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the dashboard API. Everything under /api and the
// websocket require an admin token.
func NewRouter(log *slog.Logger, h *Handler, issuer *auth.TokenIssuer) *gin.Engine {
	gin.DefaultWriter = runtime.NewLogWriter(log, "gin", false)
	gin.DefaultErrorWriter = runtime.NewLogWriter(log, "gin", true)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", h.Health)
	r.POST("/check_admin", h.CheckAdmin)

	api := r.Group("/api", auth.Middleware(issuer))
	api.GET("/state", h.State)
	api.GET("/participants", h.Participants)
	api.POST("/placements", h.Place)
	api.DELETE("/placements/:name", h.Remove)
	api.PUT("/layout", h.SelectLayout)
	api.POST("/reset", h.Reset)
	api.POST("/voice/transcript", h.Transcript)
	api.POST("/voice/audio", h.Audio)
	api.GET("/stats", h.Stats)
	api.GET("/history", h.History)

	r.GET("/ws", auth.Middleware(issuer), h.Websocket)
	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	log             *slog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

func NewServer(log *slog.Logger, addr string, handler http.Handler, shutdownTimeout time.Duration) *Server {
	return &Server{
		log: log,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", s.server.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("HTTP server shutdown failed", "err", err)
		}
		return nil
	}
}
