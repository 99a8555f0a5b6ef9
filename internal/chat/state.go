package chat

// StateKind is a step of the session lifecycle.
type StateKind int

const (
	// StateIdle is a session that has not started connecting.
	StateIdle StateKind = iota
	// StateConnecting covers the history fetch and the socket dial.
	StateConnecting
	// StateOpen means the socket is up and the receive loop is running.
	StateOpen
	// StateClosing means Disconnect is tearing the session down.
	StateClosing
	// StateClosed is terminal. Reason says why.
	StateClosed
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// State is the connection state of a session.
type State struct {
	Kind   StateKind
	Reason string
}

// ReasonDisconnected is the Closed reason after a caller-initiated Disconnect.
const ReasonDisconnected = "disconnected"

func (s State) String() string {
	if s.Kind == StateClosed && s.Reason != "" {
		return s.Kind.String() + "(" + s.Reason + ")"
	}
	return s.Kind.String()
}

// canTransition lists the allowed lifecycle edges.
func canTransition(from, to StateKind) bool {
	switch from {
	case StateIdle:
		return to == StateConnecting || to == StateClosed
	case StateConnecting:
		return to == StateOpen || to == StateClosing || to == StateClosed
	case StateOpen:
		return to == StateClosing || to == StateClosed
	case StateClosing:
		return to == StateClosed
	default:
		return false
	}
}
