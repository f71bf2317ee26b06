package mqtt

import (
	"encoding/json"
	"fmt"
	"share-lab/domain"
	sharederrors "share-lab/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errBoom = fmt.Errorf("boom")

func TestClient_PublishRequiresConnection(t *testing.T) {
	fake := &fakePubSub{connected: false, token: &fakeToken{complete: true}}
	client := newTestClient(fake, nil)

	err := client.Publish(TopicScreenUpdate, []byte(`{}`))

	require.ErrorIs(t, err, sharederrors.ErrNotConnected)
	require.Empty(t, fake.published)
}

func TestClient_PublishTimeoutAndError(t *testing.T) {
	fake := &fakePubSub{connected: true, token: &fakeToken{complete: false}}
	client := newTestClient(fake, nil)
	require.ErrorIs(t, client.Publish(TopicScreenUpdate, nil), sharederrors.ErrPublishTimeout)

	fake.token = &fakeToken{complete: true, err: errBoom}
	require.ErrorIs(t, client.Publish(TopicScreenUpdate, nil), errBoom)

	fake.token = &fakeToken{complete: true}
	require.NoError(t, client.Publish(TopicScreenUpdate, nil))
}

func TestClient_OnConnectSubscribesThenRequestsState(t *testing.T) {
	// Given a dashboard router and the two state requests
	fake := &fakePubSub{connected: true, token: &fakeToken{complete: true}}
	router, _, _, _ := newDashboardRouter(t)
	client := newTestClient(fake, router).OnConnectRequests(TopicParticipantRequest, TopicScreenRequest)

	// When the connection comes up
	client.handleConnect()

	// Then every routed topic is subscribed and the roster is requested before the screen
	require.Len(t, fake.subscribed, len(router.Topics()))
	require.Equal(t, byte(1), fake.subscribed[TopicScreenResponse])
	require.Len(t, fake.published, 2)
	require.Equal(t, TopicParticipantRequest, fake.published[0].topic)
	require.Equal(t, TopicScreenRequest, fake.published[1].topic)
}

func TestClient_OnConnectStopsWhenSubscribeFails(t *testing.T) {
	fake := &fakePubSub{connected: true, token: &fakeToken{complete: true, err: errBoom}}
	router, _, _, _ := newDashboardRouter(t)
	client := newTestClient(fake, router).OnConnectRequests(TopicParticipantRequest)

	client.handleConnect()

	require.Empty(t, fake.published)
}

func TestPublisher_Encodes(t *testing.T) {
	var sent []published
	publisher := &Publisher{publish: func(topic string, payload []byte) error {
		sent = append(sent, published{topic: topic, payload: payload})
		return nil
	}}

	alice := domain.Participant{ID: "a1", Name: "Alice"}
	require.NoError(t, publisher.PublishPlacement(domain.Snapshot{Layout: domain.LayoutSingle}))
	require.NoError(t, publisher.PublishRoster(nil))
	require.NoError(t, publisher.RespondRoster([]domain.Participant{alice}))
	require.NoError(t, publisher.PublishLeft(alice))
	require.NoError(t, publisher.PublishHealth(domain.NodeHealth{
		ID: "dash-1", Type: domain.DASHBOARD, Layout: domain.LayoutDual,
		At: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	require.Len(t, sent, 5)
	require.Equal(t, TopicScreenUpdate, sent[0].topic)
	require.JSONEq(t, `{"layout":1,"participants":[]}`, string(sent[0].payload))
	require.Equal(t, TopicParticipantUpdate, sent[1].topic)
	require.JSONEq(t, `[]`, string(sent[1].payload))
	require.Equal(t, TopicParticipantResponse, sent[2].topic)
	require.JSONEq(t, `[{"id":"a1","name":"Alice"}]`, string(sent[2].payload))
	require.Equal(t, TopicParticipantLeft, sent[3].topic)
	require.Equal(t, TopicDashboardHeartbeat, sent[4].topic)

	var health domain.NodeHealth
	require.NoError(t, json.Unmarshal(sent[4].payload, &health))
	require.Equal(t, domain.DASHBOARD, health.Type)
	require.Equal(t, domain.LayoutDual, health.Layout)
}
