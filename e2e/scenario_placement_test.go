package e2e

import (
	"net/http"
	"share-lab/domain"
	"share-lab/infrastructure/mqtt"
	"share-lab/infrastructure/web"
	"share-lab/projection"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type testPlacementSuite struct {
	BaseHTTPSuite
}

func TestPlacementSuite(t *testing.T) {
	suite.Run(t, &testPlacementSuite{})
}

func (s *testPlacementSuite) TestPlacementLifecycle() {
	roster := []domain.Participant{{ID: "e2e-a", Name: "E2E-Alice"}, {ID: "e2e-b", Name: "E2E-Bob"}}

	s.Run("Step 0: Reset the board", func() {
		s.Require().Equal(http.StatusOK, s.Call("Reset", http.MethodPost, "/api/reset", nil, nil))
	})

	s.Run("Step 1: Receiver announces the roster", func() {
		s.Publish(mqtt.TopicParticipantUpdate, roster)
		s.Require().Eventually(func() bool {
			var participants []projection.ParticipantView
			s.Call("Participants", http.MethodGet, "/api/participants", nil, &participants)
			return len(participants) == len(roster)
		}, 5*time.Second, 200*time.Millisecond)
	})

	s.Run("Step 2: Placing grows the layout", func() {
		var resp web.StateResponse
		s.Require().Equal(http.StatusOK, s.Call("Place Alice", http.MethodPost, "/api/placements", web.PlacementRequest{Name: "E2E-Alice"}, &resp))
		s.Require().Equal(domain.LayoutSingle, resp.State.Layout)

		s.Require().Equal(http.StatusOK, s.Call("Place Bob", http.MethodPost, "/api/placements", web.PlacementRequest{Name: "E2E-Bob"}, &resp))
		s.Require().Equal(domain.LayoutDual, resp.State.Layout)

		var refused web.ErrorResponse
		s.Require().Equal(http.StatusConflict, s.Call("Place Bob twice", http.MethodPost, "/api/placements", web.PlacementRequest{Name: "E2E-Bob"}, &refused))
	})

	s.Run("Step 3: Removing shrinks the layout", func() {
		var resp web.StateResponse
		s.Require().Equal(http.StatusOK, s.Call("Remove Alice", http.MethodDelete, "/api/placements/E2E-Alice", nil, &resp))
		s.Require().Equal(domain.LayoutSingle, resp.State.Layout)
		s.Require().Equal([]string{"E2E-Bob"}, lo.Map(resp.State.Placed, func(p domain.Participant, _ int) string { return p.Name }))
	})

	s.Run("Step 4: History keeps every change", func() {
		var page web.HistoryResponse
		s.Require().Equal(http.StatusOK, s.Call("History", http.MethodGet, "/api/history", nil, &page))
		s.Require().NotEmpty(page.Records)
	})
}
