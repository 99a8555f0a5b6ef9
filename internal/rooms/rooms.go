// Package rooms is a client for the relay's room directory: creating, listing and
// joining rooms, and requesting guest identities.
package rooms

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vovakirdan/haikuchat/internal/utils"
)

// MaxNameLength bounds room names in characters.
const MaxNameLength = 15

// CodeLength is the length of a room code.
const CodeLength = utils.RoomCodeLength

var (
	// ErrRoomNotFound is returned when a room code matches no room or the
	// membership update is refused.
	ErrRoomNotFound = errors.New("room not found")
	// ErrInvalidName is returned for empty or overlong room names.
	ErrInvalidName = errors.New("room name must be 1 to 15 characters")
	// ErrInvalidCode is returned for malformed room codes.
	ErrInvalidCode = errors.New("room code must be 6 letters or digits")
)

// Room is a room directory entry.
type Room struct {
	ID          string
	Name        string
	LastMessage string
	MessageTime string
}

// ValidateName checks a room name after trimming surrounding space.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return ErrInvalidName
	}
	return nil
}

// NormalizeCode uppercases a user-typed room code and checks its shape.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != CodeLength {
		return "", ErrInvalidCode
	}
	for _, r := range code {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return "", ErrInvalidCode
		}
	}
	return code, nil
}

// NewCode returns a fresh random room code.
func NewCode() string {
	return utils.NewRoomCode()
}
