package utils

import (
	"strings"

	"github.com/google/uuid"
)

// RoomCodeLength is the length of a shareable room code.
const RoomCodeLength = 6

// NewID returns a random unique identifier.
func NewID() string {
	return uuid.NewString()
}

// NewRoomCode returns a short uppercase code used as a room ID.
func NewRoomCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:RoomCodeLength])
}
