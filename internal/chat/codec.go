package chat

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/haikuchat/internal/proto"
)

// ErrEmptyMessage is returned for frames that carry neither text nor an action.
var ErrEmptyMessage = errors.New("empty message frame")

// FromFrame converts a wire frame into a Message. A missing action means a chat
// message.
func FromFrame(f proto.Frame) (Message, error) {
	if f.Message == "" && f.Action == "" {
		return Message{}, ErrEmptyMessage
	}
	action := Action(f.Action)
	if action == "" {
		action = ActionSend
	}
	return Message{
		Action:    action,
		RoomID:    f.RoomID,
		Text:      f.Message,
		UserID:    f.UserID,
		Username:  f.Username,
		Timestamp: f.Timestamp,
	}, nil
}

// ToFrame converts a Message into its wire frame.
func ToFrame(m Message) proto.Frame {
	return proto.Frame{
		Action:    string(m.Action),
		RoomID:    m.RoomID,
		Message:   m.Text,
		UserID:    m.UserID,
		Username:  m.Username,
		Timestamp: m.Timestamp,
	}
}

// DecodeMessage decodes one socket text frame.
func DecodeMessage(data []byte) (Message, error) {
	var f proto.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Message{}, fmt.Errorf("decode frame: %w", err)
	}
	return FromFrame(f)
}

// EncodeMessage encodes a Message as a socket text frame.
func EncodeMessage(m Message) ([]byte, error) {
	data, err := json.Marshal(ToFrame(m))
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}

// DecodeHistory decodes a history response body, a JSON array of frames. Elements
// that fail to decode or are empty are skipped and counted in dropped. An error is
// returned only when the body is not an array at all.
func DecodeHistory(data []byte) (messages []Message, dropped int, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode history: %w", err)
	}

	messages = make([]Message, 0, len(raw))
	for _, item := range raw {
		msg, err := DecodeMessage(item)
		if err != nil {
			dropped++
			continue
		}
		messages = append(messages, msg)
	}
	return messages, dropped, nil
}
