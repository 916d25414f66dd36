// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAPIKeyUseCase is a mock implementation of APIKeyUseCase for testing.
type MockAPIKeyUseCase struct {
	mock.Mock
}

// Store mocks the Store method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Store(ctx context.Context, userIdentifier, apiKey string) error {
	args := m.Called(ctx, userIdentifier, apiKey)
	return args.Error(0)
}

// Fetch mocks the Fetch method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Fetch(ctx context.Context, userIdentifier string) (string, error) {
	args := m.Called(ctx, userIdentifier)
	return args.String(0), args.Error(1)
}

// Exists mocks the Exists method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Exists(ctx context.Context, userIdentifier string) (bool, error) {
	args := m.Called(ctx, userIdentifier)
	return args.Bool(0), args.Error(1)
}

// Delete mocks the Delete method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Delete(ctx context.Context, userIdentifier string) (bool, error) {
	args := m.Called(ctx, userIdentifier)
	return args.Bool(0), args.Error(1)
}
