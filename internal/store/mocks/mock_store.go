// Package mocks provides testify mocks for the store package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// MockStore is a mock implementation of store.Store.
type MockStore struct {
	mock.Mock
}

// NewMockStore creates a MockStore that asserts its expectations during
// test cleanup.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// SaveReport provides a mock function.
func (m *MockStore) SaveReport(ctx context.Context, rpt *domain.Report) error {
	args := m.Called(ctx, rpt)
	return args.Error(0)
}

// GetReport provides a mock function.
func (m *MockStore) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// LatestReport provides a mock function.
func (m *MockStore) LatestReport(ctx context.Context) (*domain.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// ListReports provides a mock function.
func (m *MockStore) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}
