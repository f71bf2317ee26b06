package event

// Handler reacts to the technical events it knows and ignores the others.
// The telemetry worker hands every event to each registered handler in turn.
type Handler interface {
	Handle(event Event)
}
