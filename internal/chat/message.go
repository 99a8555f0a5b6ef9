package chat

import (
	"time"

	"github.com/vovakirdan/haikuchat/internal/proto"
)

// TimestampLayout is the wall-clock format of Message.Timestamp.
const TimestampLayout = proto.TimestampLayout

// UnknownUsername is shown for messages without a sender name.
const UnknownUsername = "Unknown"

// Action is the frame action of a message. Anything other than ActionSend is a
// system event.
type Action string

// ActionSend is a user chat message.
const ActionSend Action = proto.ActionSendMessage

// IsSystem reports whether the action is not a user chat message.
func (a Action) IsSystem() bool {
	return a != ActionSend
}

// Message is one chat event. Messages are values and are never modified once
// they enter a Store.
type Message struct {
	Action    Action
	RoomID    string
	Text      string
	UserID    string
	Username  string
	Timestamp string
}

// DisplayName returns the sender name, or UnknownUsername.
func (m Message) DisplayName() string {
	if m.Username == "" {
		return UnknownUsername
	}
	return m.Username
}

// IsFrom reports whether userID sent the message.
func (m Message) IsFrom(userID string) bool {
	return m.UserID != "" && m.UserID == userID
}

// Time parses the display timestamp. ok is false when it cannot be parsed.
func (m Message) Time() (t time.Time, ok bool) {
	return ParseTimestamp(m.Timestamp)
}

// NewTimestamp formats t as a display timestamp.
func NewTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp reads a display timestamp. RFC 3339 values are accepted too since
// some history sources store them.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
