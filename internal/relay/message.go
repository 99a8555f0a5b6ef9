package relay

// Message is the relay's model of a chat message.
type Message struct {
	ID        int64
	RoomID    string
	UserID    string
	Username  string
	Text      string
	Timestamp string
}
