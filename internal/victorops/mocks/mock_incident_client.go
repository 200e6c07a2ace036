// Package mocks provides testify mocks for the victorops package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/alert-digest/internal/victorops"
)

// MockIncidentClient is a mock implementation of victorops.IncidentClient.
type MockIncidentClient struct {
	mock.Mock
}

// NewMockIncidentClient creates a MockIncidentClient that asserts its
// expectations during test cleanup.
func NewMockIncidentClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIncidentClient {
	m := &MockIncidentClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Incidents provides a mock function.
func (m *MockIncidentClient) Incidents(
	ctx context.Context,
	q victorops.IncidentQuery,
) ([]victorops.Incident, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]victorops.Incident), args.Error(1)
}
