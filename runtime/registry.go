package runtime

import (
	"share-lab/contract"
	"sort"
	"sync"
)

// Registry keeps one sink per connected dashboard session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink // map session -> Sink
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]contract.EventSink),
	}
}

// GetSinks returns the sinks of every connected session, ordered by session id
// so that a fanout visits them in a stable order.
func (r *Registry) GetSinks() []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.sessions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sinks := make([]contract.EventSink, 0, len(ids))
	for _, id := range ids {
		sinks = append(sinks, r.sessions[id])
	}
	return sinks
}

// Subscribe registers the sink of a session. A second subscribe with the same
// id replaces the previous sink.
func (r *Registry) Subscribe(sessionID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = sink
}

func (r *Registry) Unsubscribe(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
