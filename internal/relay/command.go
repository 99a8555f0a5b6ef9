package relay

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandSendMessage persists a chat message and delivers it to the room.
	CommandSendMessage CommandKind = iota
	// CommandUnknown is a frame whose action the relay does not handle.
	CommandUnknown
)

// Command represents an action requested by a client.
type Command struct {
	Kind    CommandKind
	Action  string
	Message Message
}
