package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Session is the authenticated caller. It is created when a login token is
// accepted and ended at logout (or, in the console API, when the request that
// carried the token completes). Controllers receive it explicitly.
type Session struct {
	UserID    int64
	Name      string
	Email     string
	Role      Role
	Token     string
	CreatedAt time.Time

	ended atomic.Bool
}

func NewSession(userID int64, name, email string, role Role, token string) (*Session, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	return &Session{
		UserID:    userID,
		Name:      name,
		Email:     email,
		Role:      role,
		Token:     token,
		CreatedAt: time.Now(),
	}, nil
}

// End destroys the session; every later permission check fails
func (s *Session) End() {
	s.ended.Store(true)
}

func (s *Session) Active() bool {
	return s != nil && !s.ended.Load()
}

// HasPermission reports whether the caller's role contains required
func (s *Session) HasPermission(required Role) bool {
	if !s.Active() {
		return false
	}
	return HasPermission(s.Role, required)
}

// Require is the guard placed at every action invocation point
func (s *Session) Require(required Role) error {
	if !s.Active() {
		return NewForbiddenError("session has ended")
	}
	if !HasPermission(s.Role, required) {
		return NewForbiddenError(fmt.Sprintf("role %s required", required))
	}
	return nil
}

// IsSelfService reports whether the caller only sees their own rentals
func (s *Session) IsSelfService() bool {
	return !s.HasPermission(RoleEmployee)
}
