// Package mocks provides testify mocks for the notify package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a MockNotifier that asserts its expectations
// during test cleanup.
func NewMockNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotifier {
	m := &MockNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// SendReport provides a mock function.
func (m *MockNotifier) SendReport(ctx context.Context, rpt *domain.Report) error {
	args := m.Called(ctx, rpt)
	return args.Error(0)
}
