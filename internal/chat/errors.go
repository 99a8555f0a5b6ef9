package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText is returned by Send for blank text.
	ErrEmptyText = errors.New("empty message text")
	// ErrSessionClosed is returned by Send when the socket is not open.
	ErrSessionClosed = errors.New("session not open")
)

// SendError reports why Send refused a message. Err is ErrEmptyText,
// ErrSessionClosed or an encoding failure.
type SendError struct {
	State State
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send in state %s: %v", e.State, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
