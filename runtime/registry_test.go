package runtime

import (
	"context"
	"share-lab/domain/event"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	id string
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sessionID := uuid.NewString()
	sink := Sink{id: sessionID}

	// Given no dashboard is connected
	req.Empty(registry.GetSinks())
	req.Zero(registry.Count())

	// When a session subscribes
	registry.Subscribe(sessionID, sink)

	// Then
	req.Equal(1, registry.Count())
	req.Len(registry.GetSinks(), 1)
	req.Contains(registry.GetSinks(), sink)
}

func TestRegistry_Subscribe_Multiple_Sessions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink1 := Sink{id: "b"}
	sink2 := Sink{id: "a"}

	// When sessions subscribe
	registry.Subscribe("b", sink1)
	registry.Subscribe("a", sink2)

	// Then sinks come back ordered by session id
	req.Equal(2, registry.Count())
	sinks := registry.GetSinks()
	req.Equal(sink2, sinks[0])
	req.Equal(sink1, sinks[1])

	// When the same session subscribes again, its sink is replaced
	replaced := Sink{id: "b-2"}
	registry.Subscribe("b", replaced)
	req.Equal(2, registry.Count())
	req.Contains(registry.GetSinks(), replaced)
}

func TestRegistry_Unsubscribe(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.Subscribe("a", Sink{id: "a"})
	registry.Subscribe("b", Sink{id: "b"})

	// When one session leaves
	registry.Unsubscribe("a")

	// Then the other one still receives events
	req.Equal(1, registry.Count())
	req.Equal(Sink{id: "b"}, registry.GetSinks()[0])

	// Unknown sessions are ignored
	registry.Unsubscribe("unknown")
	req.Equal(1, registry.Count())
}
