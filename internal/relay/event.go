package relay

// EventKind is a notification the hub emits to clients.
type EventKind int

const (
	// EventMessage delivers a chat message to everyone in a room, sender included.
	EventMessage EventKind = iota
	// EventError notifies one client about a rejected command.
	EventError
)

// Event is sent to clients to describe what happened in their room.
type Event struct {
	Kind    EventKind
	Message Message
	Error   *Error
}
