package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"share-lab/auth"
	"share-lab/domain"
	"share-lab/domain/event"
	"share-lab/errors"
	"share-lab/infrastructure/storage"
	"share-lab/mocks"
	"share-lab/observability"
	"share-lab/projection"
	"share-lab/services"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const adminPassword = "s3cret"

var (
	alice = domain.Participant{ID: "a1", Name: "Alice"}
	bob   = domain.Participant{ID: "b2", Name: "Bob"}
)

type fakeVoice struct {
	transcripts []string
	audio       [][]byte
	result      event.VoiceMatched
	err         error
}

func (f *fakeVoice) HandleTranscript(_ context.Context, transcript string) (event.VoiceMatched, error) {
	f.transcripts = append(f.transcripts, transcript)
	return f.result, f.err
}

func (f *fakeVoice) HandleAudio(_ context.Context, audio []byte) (event.VoiceMatched, error) {
	f.audio = append(f.audio, audio)
	return f.result, f.err
}

type testAPI struct {
	router       *gin.Engine
	orchestrator *mocks.MockIOrchestrator
	history      *mocks.MockISnapshotRepository
	dashboard    *projection.Dashboard
	stats        *observability.StatsBoard
	voice        *fakeVoice
	token        string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)
	history := mocks.NewMockISnapshotRepository(ctrl)

	verifier, err := auth.NewPasswordVerifier(adminPassword)
	require.NoError(t, err)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	api := &testAPI{
		orchestrator: orchestrator,
		history:      history,
		dashboard:    projection.NewDashboard(5),
		stats:        observability.NewStatsBoard(log, 5),
		voice:        &fakeVoice{},
	}
	handler := NewHandler(log,
		services.NewAuthService(verifier, issuer),
		services.NewPlacementService(orchestrator, history),
		api.dashboard, api.stats, api.voice, orchestrator)
	api.router = NewRouter(log, handler, issuer)

	api.token, err = issuer.Generate("admin", auth.RoleAdmin)
	require.NoError(t, err)
	return api
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	r := httptest.NewRequest(method, path, reader)
	if a.token != "" {
		r.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

func placedState(placed ...domain.Participant) domain.BoardState {
	layout := domain.OptimalLayout(len(placed))
	slots := make([]domain.Slot, layout.Capacity())
	for i := range slots {
		slots[i].ID = domain.SlotIDFor(i)
		if i < len(placed) {
			occupant := placed[i]
			slots[i].Occupant = &occupant
		}
	}
	return domain.BoardState{
		Layout: layout,
		Active: len(placed) > 0,
		Slots:  slots,
		Placed: placed,
		Roster: []domain.Participant{alice, bob},
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	w := api.do(http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CheckAdmin(t *testing.T) {
	req := require.New(t)
	api := newTestAPI(t)
	api.token = ""

	// When the right password is sent
	w := api.do(http.MethodPost, "/check_admin", map[string]string{"password": adminPassword})

	// Then a token usable on the api comes back
	req.Equal(http.StatusOK, w.Code)
	login := decode[LoginResponse](t, w)
	req.NotEmpty(login.Token)

	api.token = login.Token
	req.Equal(http.StatusOK, api.do(http.MethodGet, "/api/state", nil).Code)

	api.token = ""
	w = api.do(http.MethodPost, "/check_admin", map[string]string{"password": "wrong"})
	req.Equal(http.StatusUnauthorized, w.Code)
	req.Equal("invalid-credentials", decode[ErrorResponse](t, w).Code)

	w = api.do(http.MethodPost, "/check_admin", []byte("{"))
	req.Equal(http.StatusBadRequest, w.Code)
}

func TestRouter_ApiRequiresToken(t *testing.T) {
	req := require.New(t)
	api := newTestAPI(t)

	api.token = ""
	req.Equal(http.StatusUnauthorized, api.do(http.MethodGet, "/api/state", nil).Code)
	req.Equal(http.StatusUnauthorized, api.do(http.MethodGet, "/ws", nil).Code)

	api.token = "garbage"
	req.Equal(http.StatusUnauthorized, api.do(http.MethodPost, "/api/reset", nil).Code)
}

func TestRouter_StateAndParticipants(t *testing.T) {
	req := require.New(t)
	api := newTestAPI(t)
	// Given the dashboard saw Alice placed
	req.NoError(api.dashboard.Consume(context.Background(), event.PlacementChanged{State: placedState(alice), At: time.Now()}))

	w := api.do(http.MethodGet, "/api/state", nil)
	req.Equal(http.StatusOK, w.Code)
	view := decode[projection.View](t, w)
	req.Equal([]domain.Participant{alice}, view.State.Placed)

	w = api.do(http.MethodGet, "/api/participants", nil)
	req.Equal(http.StatusOK, w.Code)
	participants := decode[[]projection.ParticipantView](t, w)
	req.Len(participants, 2)
	req.True(participants[0].Placed)
	req.Equal(domain.SlotID("slot-0"), participants[0].Slot)
	req.False(participants[1].Placed)
}

func TestRouter_PlaceRoutesToTheRightCommand(t *testing.T) {
	tests := []struct {
		name string
		body PlacementRequest
		want domain.Command
	}{
		{"video area", PlacementRequest{Name: "Alice"}, domain.PlaceCommand{Name: "Alice", Source: domain.SourceAdmin}},
		{"slot", PlacementRequest{Name: "Alice", Slot: "slot-0"}, domain.PlaceInSlotCommand{Name: "Alice", Slot: "slot-0"}},
		{"layout option", PlacementRequest{Name: "Alice", Layout: domain.LayoutDual}, domain.PlaceWithLayoutCommand{Name: "Alice", Layout: domain.LayoutDual}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.orchestrator.EXPECT().
				Execute(gomock.Any(), tt.want).
				Return(domain.Result{Accepted: true, State: placedState(alice)}, nil)

			w := api.do(http.MethodPost, "/api/placements", tt.body)

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, []domain.Participant{alice}, decode[StateResponse](t, w).State.Placed)
		})
	}
}

func TestRouter_PlaceRejections(t *testing.T) {
	req := require.New(t)
	api := newTestAPI(t)

	// Invalid bodies never reach the board
	req.Equal(http.StatusBadRequest, api.do(http.MethodPost, "/api/placements", PlacementRequest{}).Code)
	req.Equal(http.StatusBadRequest, api.do(http.MethodPost, "/api/placements", PlacementRequest{Name: "Alice", Slot: "slot-9"}).Code)
	req.Equal(http.StatusBadRequest, api.do(http.MethodPost, "/api/placements", PlacementRequest{Name: "Alice", Layout: 5}).Code)

	// An unknown name is refused with the board unchanged
	api.orchestrator.EXPECT().
		Execute(gomock.Any(), domain.PlaceCommand{Name: "Nobody", Source: domain.SourceAdmin}).
		Return(domain.Result{State: placedState()}, nil)
	w := api.do(http.MethodPost, "/api/placements", PlacementRequest{Name: "Nobody"})
	req.Equal(http.StatusNotFound, w.Code)
	req.Equal("unknown-participant", decode[ErrorResponse](t, w).Code)

	api.orchestrator.EXPECT().
		Execute(gomock.Any(), domain.PlaceCommand{Name: "Alice", Source: domain.SourceAdmin}).
		Return(domain.Result{State: placedState(alice)}, nil)
	w = api.do(http.MethodPost, "/api/placements", PlacementRequest{Name: "Alice"})
	req.Equal(http.StatusConflict, w.Code)
	req.Equal("already-placed", decode[ErrorResponse](t, w).Code)

	api.orchestrator.EXPECT().
		Execute(gomock.Any(), domain.PlaceCommand{Name: "Bob", Source: domain.SourceAdmin}).
		Return(domain.Result{}, errors.ErrQueueFull)
	w = api.do(http.MethodPost, "/api/placements", PlacementRequest{Name: "Bob"})
	req.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestRouter_RemoveLayoutReset(t *testing.T) {
	req := require.New(t)
	api := newTestAPI(t)

	api.orchestrator.EXPECT().
		Execute(gomock.Any(), domain.RemoveCommand{Name: "Alice"}).
		Return(domain.Result{Accepted: true, State: placedState()}, nil)
	req.Equal(http.StatusOK, api.do(http.MethodDelete, "/api/placements/Alice", nil).Code)

	api.orchestrator.EXPECT().
		Execute(gomock.Any(), domain.SelectLayoutCommand{Layout: domain.LayoutQuad}).
		Return(domain.Result{Accepted: true, State: placedState(alice)}, nil)
	req.Equal(http.StatusOK, api.do(http.MethodPut, "/api/layout", LayoutRequest{Layout: domain.LayoutQuad}).Code)
	req.Equal(http.StatusBadRequest, api.do(http.MethodPut, "/api/layout", LayoutRequest{}).Code)

	api.orchestrator.EXPECT().
		Execute(gomock.Any(), domain.ResetCommand{}).
		Return(domain.Result{Accepted: true, State: placedState()}, nil)
	w := api.do(http.MethodPost, "/api/reset", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Empty(decode[StateResponse](t, w).State.Placed)
}

func TestRouter_Voice(t *testing.T) {
	req := require.New(t)
	api := newTestAPI(t)
	api.voice.result = event.VoiceMatched{Transcript: "show alice", Names: []string{"Alice"}}

	w := api.do(http.MethodPost, "/api/voice/transcript", TranscriptRequest{Transcript: "show alice"})
	req.Equal(http.StatusOK, w.Code)
	req.Equal([]string{"Alice"}, decode[event.VoiceMatched](t, w).Names)
	req.Equal([]string{"show alice"}, api.voice.transcripts)

	req.Equal(http.StatusBadRequest, api.do(http.MethodPost, "/api/voice/transcript", TranscriptRequest{}).Code)

	w = api.do(http.MethodPost, "/api/voice/audio", []byte("RIFFdata"))
	req.Equal(http.StatusOK, w.Code)
	req.Equal([][]byte{[]byte("RIFFdata")}, api.voice.audio)

	req.Equal(http.StatusBadRequest, api.do(http.MethodPost, "/api/voice/audio", []byte{}).Code)

	api.voice.err = errors.ErrUnsupportedAudio
	req.Equal(http.StatusUnsupportedMediaType, api.do(http.MethodPost, "/api/voice/audio", []byte("junk")).Code)
}

func TestRouter_Stats(t *testing.T) {
	req := require.New(t)
	api := newTestAPI(t)
	ctx := context.Background()
	now := time.Now()
	req.NoError(api.stats.Consume(ctx, event.StatsReceived{Stats: domain.StreamStats{Name: "Alice", FPS: 30, At: now}, At: now}))
	req.NoError(api.stats.Consume(ctx, event.StatsReceived{Stats: domain.StreamStats{Name: "Bob", FPS: 25, At: now}, At: now}))
	req.NoError(api.stats.Consume(ctx, event.PlacementChanged{State: placedState(alice), At: now}))

	w := api.do(http.MethodGet, "/api/stats?name=Alice", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Equal(30.0, decode[observability.ParticipantStats](t, w).Latest.FPS)

	req.Equal(http.StatusNotFound, api.do(http.MethodGet, "/api/stats?name=Nobody", nil).Code)

	req.Len(decode[[]observability.ParticipantStats](t, api.do(http.MethodGet, "/api/stats", nil)), 2)
	placed := decode[[]observability.ParticipantStats](t, api.do(http.MethodGet, "/api/stats?placed=true", nil))
	req.Len(placed, 1)
	req.Equal("Alice", placed[0].Name)
}

func TestRouter_History(t *testing.T) {
	req := require.New(t)
	api := newTestAPI(t)
	next := "0000000000000000001:4b1c"
	records := []storage.SnapshotRecord{{Reason: "place", Layout: domain.LayoutSingle, Participants: []domain.Participant{alice}}}

	api.history.EXPECT().History(nil).Return(records, &next, nil)
	w := api.do(http.MethodGet, "/api/history", nil)
	req.Equal(http.StatusOK, w.Code)
	page := decode[HistoryResponse](t, w)
	req.Len(page.Records, 1)
	req.Equal(next, *page.Cursor)

	api.history.EXPECT().History(&next).Return(nil, nil, nil)
	w = api.do(http.MethodGet, "/api/history?cursor="+next, nil)
	req.Equal(http.StatusOK, w.Code)
	req.Nil(decode[HistoryResponse](t, w).Cursor)
}
