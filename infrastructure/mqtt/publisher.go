package mqtt

import (
	"encoding/json"
	"fmt"
	"share-lab/domain"
)

type publishFunc func(topic string, payload []byte) error

// Publisher encodes outbound messages as JSON.
// It satisfies PlacementPublisher, RosterPublisher and HealthPublisher.
type Publisher struct {
	publish publishFunc
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{publish: client.Publish}
}

func (p *Publisher) PublishPlacement(snapshot domain.Snapshot) error {
	if snapshot.Participants == nil {
		snapshot.Participants = []domain.Participant{}
	}
	return p.send(TopicScreenUpdate, snapshot)
}

func (p *Publisher) PublishRoster(participants []domain.Participant) error {
	return p.send(TopicParticipantUpdate, nonNil(participants))
}

// RespondRoster answers a participant/request.
func (p *Publisher) RespondRoster(participants []domain.Participant) error {
	return p.send(TopicParticipantResponse, nonNil(participants))
}

func (p *Publisher) PublishLeft(participant domain.Participant) error {
	return p.send(TopicParticipantLeft, participant)
}

func (p *Publisher) PublishHealth(health domain.NodeHealth) error {
	return p.send(TopicDashboardHeartbeat, health)
}

func (p *Publisher) send(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}
	return p.publish(topic, payload)
}

func nonNil(participants []domain.Participant) []domain.Participant {
	if participants == nil {
		return []domain.Participant{}
	}
	return participants
}
