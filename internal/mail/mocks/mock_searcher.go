// Package mocks provides testify mocks for the mail package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSearcher is a mock implementation of mail.Searcher.
type MockSearcher struct {
	mock.Mock
}

// NewMockSearcher creates a MockSearcher that asserts its expectations
// during test cleanup.
func NewMockSearcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSearcher {
	m := &MockSearcher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Subjects provides a mock function.
func (m *MockSearcher) Subjects(ctx context.Context, query string) ([]string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
