// Package mocks provides gomock implementations of the lexdesk ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	exchange := mocks.NewMockCredentialExchange(ctrl)
//	exchange.EXPECT().Login(gomock.Any(), gomock.Any()).Return(result, nil)
package mocks

// Generate mocks for the ClientStore, CredentialExchange and ResetNotifier ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/target/lexdesk/internal/ports ClientStore,CredentialExchange,ResetNotifier
