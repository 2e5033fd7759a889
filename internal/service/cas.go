package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oakgrove/campus-portal/internal/adapters/attrmap"
	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
	"github.com/oakgrove/campus-portal/internal/domain/model"
	"github.com/oakgrove/campus-portal/internal/ports"
)

var (
	// ErrUnknownMechanism means the authtype parameter named a mechanism
	// that is not configured. This is a configuration-class error, not a
	// normal validation failure.
	ErrUnknownMechanism = errors.New("unknown auth mechanism")

	// ErrNotAuthenticated covers every remote validation outcome that
	// yields no subject. Callers redirect home without side effects.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// CASServiceOptions groups dependencies for CASService.
type CASServiceOptions struct {
	Mechanisms map[string]domainauth.Mechanism
	Validator  ports.TicketValidator
	Users      ports.UserStore
	LoginLog   ports.LoginRecorder
	Sealer     ports.SessionSealer
	// ServiceURL is the exact callback URL tickets are issued against.
	ServiceURL string
	Logger     *slog.Logger
}

// CASService orchestrates the ticket login flow: validate, map attributes,
// provision the user, record the login, seal the session. It holds only
// read-only configuration and is safe for concurrent use.
type CASService struct {
	mechanisms map[string]domainauth.Mechanism
	validator  ports.TicketValidator
	users      ports.UserStore
	loginLog   ports.LoginRecorder
	sealer     ports.SessionSealer
	serviceURL string
	logger     *slog.Logger
}

// NewCASService constructs a new CASService.
func NewCASService(opts CASServiceOptions) *CASService {
	return &CASService{
		mechanisms: opts.Mechanisms,
		validator:  opts.Validator,
		users:      opts.Users,
		loginLog:   opts.LoginLog,
		sealer:     opts.Sealer,
		serviceURL: opts.ServiceURL,
		logger:     opts.Logger,
	}
}

func (s *CASService) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// TicketLoginInput groups parameters for completing a ticket login.
type TicketLoginInput struct {
	Ticket      string
	MechanismID string
}

// TicketLoginResult is the outcome of a successful validation. SealFailed
// marks the degraded case where the user was provisioned and the login
// recorded, but no session token could be produced; the caller must not set
// a session cookie then.
type TicketLoginResult struct {
	Subject    domainauth.Subject
	User       *model.User
	Token      string
	SealFailed bool
}

// CompleteTicketLogin runs the full callback flow for one request. A
// validation failure returns ErrNotAuthenticated and guarantees no user,
// session, or audit side effects.
func (s *CASService) CompleteTicketLogin(ctx context.Context, in TicketLoginInput) (*TicketLoginResult, error) {
	if in.Ticket == "" {
		return nil, fmt.Errorf("%w: missing ticket", ErrNotAuthenticated)
	}
	mech, ok := s.mechanisms[in.MechanismID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMechanism, in.MechanismID)
	}

	validated, err := s.validator.Validate(ctx, ports.ValidateInput{
		Mechanism:  mech,
		Ticket:     in.Ticket,
		ServiceURL: s.serviceURL,
	})
	if err != nil {
		s.log().InfoContext(ctx, "ticket validation failed",
			"mechanism", mech.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}

	params := attrmap.Map(validated.Username, validated.Attributes, mech)
	user, err := s.users.Upsert(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("provision user %s@%s: %w", validated.Username, mech.Affiliation, err)
	}

	if recordErr := s.loginLog.Record(ctx, model.LoginLogEntry{
		Username:    user.Username,
		Affiliation: user.Affiliation,
		Mechanism:   mech.ID,
		Success:     true,
	}); recordErr != nil {
		// Audit failure must not undo a completed login.
		s.log().ErrorContext(ctx, "record login failed",
			"user", user.Username, "affiliation", user.Affiliation, "error", recordErr)
	}

	subject := domainauth.NewSubject(user.Username, user.Affiliation)
	result := &TicketLoginResult{Subject: subject, User: user}

	token, err := s.sealer.Seal(domainauth.SessionClaims{
		Subject:  subject,
		IssuedAt: time.Now().UTC(),
	})
	if err != nil {
		// Degraded outcome: the browser gets no session but the login
		// itself completed. Must be visible in diagnostics.
		s.log().ErrorContext(ctx, "session seal failed", "subject", string(subject), "error", err)
		result.SealFailed = true
		return result, nil
	}
	result.Token = token

	s.log().InfoContext(ctx, "login completed",
		"subject", string(subject), "mechanism", mech.ID)
	return result, nil
}

// OpenSession opens a session token from a cookie. An unopenable token
// means the session is absent.
func (s *CASService) OpenSession(_ context.Context, token string) (domainauth.SessionClaims, error) {
	return s.sealer.Open(token)
}

// Mechanism returns the configured mechanism for an identifier.
func (s *CASService) Mechanism(id string) (domainauth.Mechanism, bool) {
	m, ok := s.mechanisms[id]
	return m, ok
}
