package domain

// EventType identifies which entity collection changed.
type EventType string

const (
	EventTypeClient EventType = "CLIENT"
	EventTypeScope  EventType = "SCOPE"
)

// EventAction identifies the mutation applied to the entity.
type EventAction string

const (
	EventActionCreate EventAction = "CREATE"
	EventActionUpdate EventAction = "UPDATE"
	EventActionDelete EventAction = "DELETE"
)

// Payload carries the identity of the entity a change event is about.
//
//nolint:tagliatelle
type Payload struct {
	ID     string      `json:"id"`
	Domain string      `json:"domain"`
	Action EventAction `json:"action"`
}

// Event is the invalidation signal emitted after every successful client or
// scope mutation so gateway nodes can refresh their in-memory caches.
type Event struct {
	Type    EventType `json:"type"`
	Payload Payload   `json:"payload"`
}

// NewEvent builds a change event for the given entity.
func NewEvent(t EventType, id, domainID string, action EventAction) *Event {
	return &Event{
		Type: t,
		Payload: Payload{
			ID:     id,
			Domain: domainID,
			Action: action,
		},
	}
}
