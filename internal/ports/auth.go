// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters, internal/sessiontoken, and
// internal/data; orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
	"github.com/oakgrove/campus-portal/internal/domain/model"
)

// ValidateInput carries inputs for a server-to-server ticket validation.
type ValidateInput struct {
	Mechanism domainauth.Mechanism
	Ticket    string
	// ServiceURL is the exact callback URL the ticket was issued against.
	ServiceURL string
}

// TicketValidator validates a service ticket against the identity provider
// and extracts the subject and raw attributes. A failed validation is
// reported as an error, never a panic; transport, TLS, and schema failures
// are all folded into the same "not authenticated" error class.
type TicketValidator interface {
	Validate(ctx context.Context, in ValidateInput) (domainauth.ValidationResult, error)
}

// UserStore provisions and reads local user records.
type UserStore interface {
	// Upsert creates the (username, affiliation) record if absent, or
	// updates its mapped fields in place. The operation is atomic per key.
	Upsert(ctx context.Context, params model.UpsertUserParams) (*model.User, error)
	GetByKey(ctx context.Context, username, affiliation string) (*model.User, error)
}

// LoginRecorder appends login audit entries.
type LoginRecorder interface {
	Record(ctx context.Context, entry model.LoginLogEntry) error
}

// LoginHistory reads back recent audit entries for one subject.
type LoginHistory interface {
	ListRecent(ctx context.Context, username, affiliation string, limit int) ([]model.LoginLogEntry, error)
}

// SessionSealer seals and opens the session cookie payload with the
// process keypair.
type SessionSealer interface {
	Seal(claims domainauth.SessionClaims) (string, error)
	Open(token string) (domainauth.SessionClaims, error)
}
