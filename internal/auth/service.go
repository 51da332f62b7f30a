package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service authenticates credentials against the store and issues tokens.
type Service struct {
	store  Store
	tokens *Tokens
}

// NewService wires the login flow with its collaborators.
func NewService(store Store, tokens *Tokens) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token service is required")
	}
	return &Service{store: store, tokens: tokens}, nil
}

// Session is the result of a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

// Login verifies an email/password pair and returns a fresh session. Unknown
// email and wrong password fail identically with ErrInvalidCredentials.
// Login itself is not audit-logged; only mutations are.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user.Summary()}, nil
}
