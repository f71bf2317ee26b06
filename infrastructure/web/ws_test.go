package web

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"share-lab/contract"
	"share-lab/domain"
	"share-lab/domain/event"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type wireFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func TestWebsocket_EventsDuringSubscriptionFollowTheView(t *testing.T) {
	req := require.New(t)
	api := newTestAPI(t)
	server := httptest.NewServer(api.router)
	t.Cleanup(server.Close)

	placed := event.PlacementChanged{
		State: domain.BoardState{
			Layout: domain.LayoutSingle,
			Active: true,
			Placed: []domain.Participant{alice},
			Roster: []domain.Participant{alice},
		},
		Reason:    "place",
		Published: true,
		At:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	delivered := make(chan error, 1)
	unregistered := make(chan struct{})

	// Given a placement fanned out while the session subscribes
	api.orchestrator.EXPECT().RegisterSession(gomock.Any(), gomock.Any()).
		Do(func(_ string, sink contract.EventSink) {
			req.NoError(api.dashboard.Consume(context.Background(), placed))
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				delivered <- sink.Consume(ctx, placed)
			}()
		})
	api.orchestrator.EXPECT().UnregisterSession(gomock.Any()).Do(func(string) { close(unregistered) })

	// When the dashboard connects
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + api.token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	req.NoError(err)

	// Then the view already holds the placement and the event comes right after it
	var first wireFrame
	req.NoError(conn.ReadJSON(&first))
	req.Equal("dashboard_view", first.Event)
	var view struct {
		State domain.BoardState `json:"state"`
	}
	req.NoError(json.Unmarshal(first.Data, &view))
	req.Equal([]domain.Participant{alice}, view.State.Placed)

	var second wireFrame
	req.NoError(conn.ReadJSON(&second))
	req.Equal(placed.Name(), second.Event)
	req.NoError(<-delivered)

	req.NoError(conn.Close())
	select {
	case <-unregistered:
	case <-time.After(2 * time.Second):
		t.Fatal("session was not unregistered")
	}
}
