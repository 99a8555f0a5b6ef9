package relay

// Client is one socket connection as seen by the hub. A client belongs to exactly
// one room, fixed when it connects.
type Client struct {
	ID       string
	UserID   string
	Username string
	RoomID   string
	Commands chan *Command
	Events   chan *Event

	// done is closed by the hub when the client is unregistered.
	done chan struct{}
}

// NewClient constructs a client with initialized channels. An empty username
// falls back to the user ID.
func NewClient(id, userID, username, roomID string) *Client {
	if username == "" {
		username = userID
	}
	return &Client{
		ID:       id,
		UserID:   userID,
		Username: username,
		RoomID:   roomID,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
		done:     make(chan struct{}),
	}
}
