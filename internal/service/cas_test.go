package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
	"github.com/oakgrove/campus-portal/internal/domain/model"
	"github.com/oakgrove/campus-portal/internal/mocks"
	mocksauth "github.com/oakgrove/campus-portal/internal/mocks/auth"
	"github.com/oakgrove/campus-portal/internal/ports"
	"github.com/oakgrove/campus-portal/internal/testutil"
)

func testMechanisms() map[string]domainauth.Mechanism {
	return map[string]domainauth.Mechanism{
		"casA": testutil.NewMechanism("casA").
			WithAffiliation("campus").
			WithDefaultGroup("students").
			WithAttributeMap(map[string]string{"mail": "email", "skin": "theme"}).
			Build(),
	}
}

func TestCompleteTicketLoginSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	validator := mocks.NewMockTicketValidator(ctrl)
	users := mocks.NewMockUserStore(ctrl)
	loginLog := mocks.NewMockLoginRecorder(ctrl)
	sealer := mocks.NewMockSessionSealer(ctrl)

	validator.EXPECT().
		Validate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in ports.ValidateInput) (domainauth.ValidationResult, error) {
			assert.Equal(t, "ST-123", in.Ticket)
			assert.Equal(t, "casA", in.Mechanism.ID)
			assert.Equal(t, "https://portal.campus.test/casauth", in.ServiceURL)
			return domainauth.ValidationResult{
				Username:   "alice",
				Attributes: domainauth.IdentityAttributes{"mail": "alice@campus.test", "ignored": "x"},
			}, nil
		})

	user := &model.User{ID: "u1", Username: "alice", Affiliation: "campus",
		Attributes: map[string]string{"email": "alice@campus.test"}}
	users.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params model.UpsertUserParams) (*model.User, error) {
			assert.Equal(t, "alice", params.Username)
			assert.Equal(t, "campus", params.Affiliation)
			assert.Equal(t, "students", params.DefaultGroup)
			assert.Equal(t, map[string]string{"email": "alice@campus.test"}, params.Attributes)
			return user, nil
		})

	loginLog.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry model.LoginLogEntry) error {
			assert.Equal(t, "alice", entry.Username)
			assert.Equal(t, "campus", entry.Affiliation)
			assert.Equal(t, "casA", entry.Mechanism)
			assert.True(t, entry.Success)
			return nil
		})

	sealer.EXPECT().Seal(gomock.Any()).Return("v1:sealed-token", nil)

	svc := NewCASService(CASServiceOptions{
		Mechanisms: testMechanisms(),
		Validator:  validator,
		Users:      users,
		LoginLog:   loginLog,
		Sealer:     sealer,
		ServiceURL: "https://portal.campus.test/casauth",
	})

	result, err := svc.CompleteTicketLogin(context.Background(), TicketLoginInput{
		Ticket:      "ST-123",
		MechanismID: "casA",
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.Subject("alice@campus"), result.Subject)
	assert.Equal(t, "v1:sealed-token", result.Token)
	assert.False(t, result.SealFailed)
	assert.Same(t, user, result.User)
}

func TestCompleteTicketLoginEmptyTicket(t *testing.T) {
	svc := NewCASService(CASServiceOptions{Mechanisms: testMechanisms()})

	_, err := svc.CompleteTicketLogin(context.Background(), TicketLoginInput{MechanismID: "casA"})
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCompleteTicketLoginUnknownMechanism(t *testing.T) {
	svc := NewCASService(CASServiceOptions{Mechanisms: testMechanisms()})

	_, err := svc.CompleteTicketLogin(context.Background(), TicketLoginInput{
		Ticket:      "ST-123",
		MechanismID: "nope",
	})
	require.ErrorIs(t, err, ErrUnknownMechanism)
}

func TestCompleteTicketLoginValidationFailureHasNoSideEffects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	validator := mocks.NewMockTicketValidator(ctrl)
	validator.EXPECT().
		Validate(gomock.Any(), gomock.Any()).
		Return(domainauth.ValidationResult{}, errors.New("INVALID_TICKET"))

	// No expectations on users, loginLog, or sealer: any call fails the test.
	svc := NewCASService(CASServiceOptions{
		Mechanisms: testMechanisms(),
		Validator:  validator,
		Users:      mocks.NewMockUserStore(ctrl),
		LoginLog:   mocks.NewMockLoginRecorder(ctrl),
		Sealer:     mocks.NewMockSessionSealer(ctrl),
	})

	_, err := svc.CompleteTicketLogin(context.Background(), TicketLoginInput{
		Ticket:      "ST-123",
		MechanismID: "casA",
	})
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCompleteTicketLoginSealFailureIsDegradedNotFatal(t *testing.T) {
	users := mocksauth.NewMemoryUserStore()
	loginLog := &mocksauth.MemoryLoginLog{}
	sealer := &mocksauth.StubSealer{SealErr: errors.New("payload too large")}

	svc := NewCASService(CASServiceOptions{
		Mechanisms: testMechanisms(),
		Validator:  &mocksauth.StubValidator{Username: "alice"},
		Users:      users,
		LoginLog:   loginLog,
		Sealer:     sealer,
	})

	result, err := svc.CompleteTicketLogin(context.Background(), TicketLoginInput{
		Ticket:      "ST-123",
		MechanismID: "casA",
	})
	require.NoError(t, err)
	assert.True(t, result.SealFailed)
	assert.Empty(t, result.Token)

	// The login itself completed: user provisioned and audit entry written.
	assert.Equal(t, 1, users.Len())
	assert.Len(t, loginLog.Entries(), 1)
}

func TestCompleteTicketLoginRecordFailureDoesNotUndoLogin(t *testing.T) {
	users := mocksauth.NewMemoryUserStore()
	loginLog := &mocksauth.MemoryLoginLog{RecordErr: errors.New("db down")}

	svc := NewCASService(CASServiceOptions{
		Mechanisms: testMechanisms(),
		Validator:  &mocksauth.StubValidator{Username: "alice"},
		Users:      users,
		LoginLog:   loginLog,
		Sealer:     &mocksauth.StubSealer{},
	})

	result, err := svc.CompleteTicketLogin(context.Background(), TicketLoginInput{
		Ticket:      "ST-123",
		MechanismID: "casA",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.False(t, result.SealFailed)
}

func TestCompleteTicketLoginIdempotentProvisioning(t *testing.T) {
	users := mocksauth.NewMemoryUserStore()
	loginLog := &mocksauth.MemoryLoginLog{}

	svc := NewCASService(CASServiceOptions{
		Mechanisms: testMechanisms(),
		Validator:  &mocksauth.StubValidator{Username: "alice"},
		Users:      users,
		LoginLog:   loginLog,
		Sealer:     &mocksauth.StubSealer{},
	})

	for i := 0; i < 2; i++ {
		_, err := svc.CompleteTicketLogin(context.Background(), TicketLoginInput{
			Ticket:      "ST-123",
			MechanismID: "casA",
		})
		require.NoError(t, err)
	}

	// Same subject twice: one user record, one audit entry per login.
	assert.Equal(t, 1, users.Len())
	assert.Len(t, loginLog.Entries(), 2)
}

func TestOpenSessionDelegatesToSealer(t *testing.T) {
	sealer := &mocksauth.StubSealer{}
	token, err := sealer.Seal(domainauth.SessionClaims{Subject: "alice@campus"})
	require.NoError(t, err)

	svc := NewCASService(CASServiceOptions{Sealer: sealer})

	claims, err := svc.OpenSession(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Subject("alice@campus"), claims.Subject)

	_, err = svc.OpenSession(context.Background(), "bogus")
	require.Error(t, err)
}
