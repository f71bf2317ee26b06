package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/observability"
	"share-lab/projection"
	"share-lab/services"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	maxAudioBytes         = 10 << 20
	defaultCommandTimeout = 3 * time.Second
)

type ViewProvider interface {
	View() projection.View
	Participants() []projection.ParticipantView
}

type StatsQuery interface {
	Query(name string) (observability.ParticipantStats, bool)
	All(placedOnly bool) []observability.ParticipantStats
}

type VoiceHandler interface {
	HandleTranscript(ctx context.Context, transcript string) (event.VoiceMatched, error)
	HandleAudio(ctx context.Context, audio []byte) (event.VoiceMatched, error)
}

type Handler struct {
	log       *slog.Logger
	auth      services.IAuthService
	placement services.IPlacementService
	view      ViewProvider
	stats     StatsQuery
	voice     VoiceHandler
	sessions  SessionRegistry
	upgrader  websocket.Upgrader
	timeout   time.Duration
}

func NewHandler(
	log *slog.Logger,
	auth services.IAuthService,
	placement services.IPlacementService,
	view ViewProvider,
	stats StatsQuery,
	voice VoiceHandler,
	sessions SessionRegistry,
) *Handler {
	return &Handler{
		log:       log,
		auth:      auth,
		placement: placement,
		view:      view,
		stats:     stats,
		voice:     voice,
		sessions:  sessions,
		upgrader:  NewUpgrader(),
		timeout:   defaultCommandTimeout,
	}
}

// WithCommandTimeout bounds how long a placement request waits for the board.
func (h *Handler) WithCommandTimeout(d time.Duration) *Handler {
	if d > 0 {
		h.timeout = d
	}
	return h
}

func (h *Handler) commandContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) CheckAdmin(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	token, err := h.auth.Login(body.Password)
	if err != nil {
		h.log.Warn("Admin login refused", "ip", c.ClientIP())
		respondError(c, err)
		return
	}
	h.log.Info("Admin logged in", "ip", c.ClientIP())
	c.JSON(http.StatusOK, LoginResponse{Token: token.String()})
}

// State returns the dashboard view: board, participants and voice log.
func (h *Handler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.view.View())
}

func (h *Handler) Participants(c *gin.Context) {
	c.JSON(http.StatusOK, h.view.Participants())
}

func (h *Handler) Place(c *gin.Context) {
	var req PlacementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx, cancel := h.commandContext(c)
	defer cancel()
	var state domain.BoardState
	var err error
	switch {
	case req.Slot != "":
		state, err = h.placement.PlaceInSlot(ctx, req.Name, req.Slot)
	case req.Layout != 0:
		state, err = h.placement.PlaceWithLayout(ctx, req.Name, req.Layout)
	default:
		state, err = h.placement.Place(ctx, req.Name)
	}
	h.respondState(c, state, err)
}

func (h *Handler) Remove(c *gin.Context) {
	ctx, cancel := h.commandContext(c)
	defer cancel()
	state, err := h.placement.Remove(ctx, c.Param("name"))
	h.respondState(c, state, err)
}

func (h *Handler) SelectLayout(c *gin.Context) {
	var req LayoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ctx, cancel := h.commandContext(c)
	defer cancel()
	state, err := h.placement.SelectLayout(ctx, req.Layout)
	h.respondState(c, state, err)
}

func (h *Handler) Reset(c *gin.Context) {
	ctx, cancel := h.commandContext(c)
	defer cancel()
	state, err := h.placement.Reset(ctx)
	h.respondState(c, state, err)
}

func (h *Handler) History(c *gin.Context) {
	var cursor *string
	if v := c.Query("cursor"); v != "" {
		cursor = &v
	}
	records, next, err := h.placement.History(cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(records) == 0 {
		next = nil
	}
	c.JSON(http.StatusOK, HistoryResponse{Records: records, Cursor: next})
}

func (h *Handler) Transcript(c *gin.Context) {
	var req TranscriptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	matched, err := h.voice.HandleTranscript(c.Request.Context(), req.Transcript)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matched)
}

func (h *Handler) Audio(c *gin.Context) {
	audio, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAudioBytes+1))
	if err != nil {
		badRequest(c, err)
		return
	}
	if len(audio) == 0 || len(audio) > maxAudioBytes {
		badRequest(c, fmt.Errorf("audio body must be between 1 and %d bytes", maxAudioBytes))
		return
	}
	matched, err := h.voice.HandleAudio(c.Request.Context(), audio)
	if err != nil {
		h.log.Warn("Voice command failed", "size", len(audio), "err", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matched)
}

// Stats answers ?name= for one participant, otherwise every tracked one,
// restricted to those on screen with ?placed=true.
func (h *Handler) Stats(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		entry, ok := h.stats.Query(name)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Message: "no stats for " + name, Code: "no-stats"})
			return
		}
		c.JSON(http.StatusOK, entry)
		return
	}
	placedOnly, _ := strconv.ParseBool(c.DefaultQuery("placed", "false"))
	c.JSON(http.StatusOK, h.stats.All(placedOnly))
}

func (h *Handler) Websocket(c *gin.Context) {
	serveSession(c, h.log, h.upgrader, h.sessions, func() Frame {
		return Frame{Event: "dashboard_view", Data: h.view.View()}
	})
}

func (h *Handler) respondState(c *gin.Context, state domain.BoardState, err error) {
	if err != nil {
		h.log.Warn("Placement request rejected", "path", c.FullPath(), "err", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StateResponse{State: state})
}

func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err)
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondError(c, err)
		return false
	}
	return true
}
