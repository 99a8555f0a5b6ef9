package identity

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when a token is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMismatch is returned when a token belongs to another user.
	ErrMismatch = errors.New("token does not match user")
)

// Service issues and verifies identities. With an empty secret it issues
// identities without tokens and accepts every connection.
type Service struct {
	jwtConfig *JWTConfig
}

// NewService creates a new identity service.
func NewService(jwtConfig *JWTConfig) *Service {
	return &Service{jwtConfig: jwtConfig}
}

// Enabled reports whether tokens are issued and required.
func (s *Service) Enabled() bool {
	return s != nil && s.jwtConfig != nil && len(s.jwtConfig.Secret) > 0
}

// IssueGuest creates a guest identity and, when enabled, signs a token for it.
func (s *Service) IssueGuest(name string) (Identity, error) {
	id, err := NewGuest(name)
	if err != nil {
		return Identity{}, err
	}
	if !s.Enabled() {
		return id, nil
	}

	token, err := GenerateToken(s.jwtConfig, id)
	if err != nil {
		return Identity{}, fmt.Errorf("generate token: %w", err)
	}
	id.Token = token
	return id, nil
}

// Verify checks that token is valid and was issued to userID. It returns nil
// claims and no error when the service is disabled.
func (s *Service) Verify(token, userID string) (*Claims, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := ValidateToken(s.jwtConfig, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.UserID != userID {
		return nil, ErrMismatch
	}
	return claims, nil
}
