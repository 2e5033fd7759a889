// Package mocks provides mock implementations for testing the ticket login flow.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the auth port interfaces. To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	users := mocks.NewMockUserStore(ctrl)
//	users.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mocks for the auth ports: TicketValidator, UserStore,
// LoginRecorder, LoginHistory, SessionSealer.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_ports_mock.go github.com/oakgrove/campus-portal/internal/ports TicketValidator,UserStore,LoginRecorder,LoginHistory,SessionSealer
