// Package auth contains simple hand-written test doubles for the auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
	"github.com/oakgrove/campus-portal/internal/domain/model"
	"github.com/oakgrove/campus-portal/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TicketValidator = (*StubValidator)(nil)
	_ ports.UserStore       = (*MemoryUserStore)(nil)
	_ ports.LoginRecorder   = (*MemoryLoginLog)(nil)
	_ ports.LoginHistory    = (*MemoryLoginLog)(nil)
	_ ports.SessionSealer   = (*StubSealer)(nil)
)

// ErrNotFound is returned by doubles when an entity is not present.
var ErrNotFound = errors.New("not found")

// StubValidator simulates an identity provider for tests.
type StubValidator struct {
	ValidateFunc func(ctx context.Context, in ports.ValidateInput) (domainauth.ValidationResult, error)

	// Default result returned when ValidateFunc is nil.
	Username   string
	Attributes domainauth.IdentityAttributes

	// Calls records every input seen, in order.
	Calls []ports.ValidateInput
}

func (s *StubValidator) Validate(ctx context.Context, in ports.ValidateInput) (domainauth.ValidationResult, error) {
	s.Calls = append(s.Calls, in)
	if s.ValidateFunc != nil {
		return s.ValidateFunc(ctx, in)
	}
	username := s.Username
	if username == "" {
		username = "alice"
	}
	return domainauth.ValidationResult{Username: username, Attributes: s.Attributes}, nil
}

// MemoryUserStore is an in-memory user store keyed by username@affiliation.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User

	UpsertErr error
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*model.User)}
}

func (m *MemoryUserStore) Upsert(_ context.Context, params model.UpsertUserParams) (*model.User, error) {
	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := params.Username + "@" + params.Affiliation
	user, ok := m.users[key]
	if !ok {
		user = &model.User{
			ID:          key,
			Username:    params.Username,
			Affiliation: params.Affiliation,
			Attributes:  make(map[string]string),
		}
		m.users[key] = user
	}
	for k, v := range params.Attributes {
		user.Attributes[k] = v
	}
	if params.DefaultGroup != "" {
		dg := params.DefaultGroup
		user.DefaultGroup = &dg
	}
	cp := *user
	return &cp, nil
}

func (m *MemoryUserStore) GetByKey(_ context.Context, username, affiliation string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username+"@"+affiliation]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *user
	return &cp, nil
}

// Len reports how many distinct users exist.
func (m *MemoryUserStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// MemoryLoginLog is an in-memory append-only login log.
type MemoryLoginLog struct {
	mu      sync.Mutex
	entries []model.LoginLogEntry

	RecordErr error
}

func (m *MemoryLoginLog) Record(_ context.Context, entry model.LoginLogEntry) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryLoginLog) ListRecent(_ context.Context, username, affiliation string, limit int) ([]model.LoginLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.LoginLogEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.Username == username && e.Affiliation == affiliation {
			out = append(out, e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Entries returns a copy of everything recorded so far.
func (m *MemoryLoginLog) Entries() []model.LoginLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LoginLogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// StubSealer produces reversible plaintext tokens for tests. Set SealErr to
// exercise the degraded no-cookie path.
type StubSealer struct {
	SealErr error
	OpenErr error

	mu     sync.Mutex
	sealed map[string]domainauth.SessionClaims
}

func (s *StubSealer) Seal(claims domainauth.SessionClaims) (string, error) {
	if s.SealErr != nil {
		return "", s.SealErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed == nil {
		s.sealed = make(map[string]domainauth.SessionClaims)
	}
	token := "stub:" + string(claims.Subject)
	s.sealed[token] = claims
	return token, nil
}

func (s *StubSealer) Open(token string) (domainauth.SessionClaims, error) {
	if s.OpenErr != nil {
		return domainauth.SessionClaims{}, s.OpenErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, ok := s.sealed[token]
	if !ok {
		return domainauth.SessionClaims{}, ErrNotFound
	}
	return claims, nil
}
