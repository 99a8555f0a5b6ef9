// Package identity issues guest identities and the tokens that vouch for them.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vovakirdan/haikuchat/internal/proto"
)

// MaxNameLength bounds display names in runes.
const MaxNameLength = 32

// ErrInvalidName is returned when a display name is too long.
var ErrInvalidName = errors.New("invalid display name")

// Identity is the user a chat session acts as.
type Identity struct {
	UserID   string
	Username string
	Token    string
}

// SenderID returns the user ID, or the guest sentinel when none is set.
func (i Identity) SenderID() string {
	if i.UserID == "" {
		return proto.GuestUserID
	}
	return i.UserID
}

// NewGuest creates an identity with a fresh random user ID. An empty name becomes
// "guest-" plus a short suffix of the ID. The returned error means the system random
// source failed; callers should treat it as fatal.
func NewGuest(name string) (Identity, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		return Identity{}, ErrInvalidName
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Identity{}, fmt.Errorf("generate user id: %w", err)
	}
	userID := id.String()
	if name == "" {
		name = "guest-" + userID[:4]
	}

	return Identity{UserID: userID, Username: name}, nil
}
