package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/alert-digest/internal/store"
	storeMocks "github.com/donaldgifford/alert-digest/internal/store/mocks"
	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// mockRunner implements DigestRunner for testing.
type mockRunner struct {
	rpt    *domain.Report
	err    error
	called bool
}

func (m *mockRunner) Run(_ context.Context) (*domain.Report, error) {
	m.called = true
	return m.rpt, m.err
}

func sampleReport() *domain.Report {
	return &domain.Report{
		ID:          "run-1",
		GeneratedAt: time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC),
		WindowDays:  7,
		Sections: []domain.ReportSection{
			{
				Source: domain.SourceEmail,
				Alerts: []domain.AggregatedAlert{{Label: "disk full", Count: 3}},
				Total:  3, TopN: 5, TopPercent: "100.00",
			},
		},
	}
}

func TestDigestHandler_Trigger(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{rpt: sampleReport()}
	h := NewDigestHandler(runner)

	out, err := h.Trigger(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, runner.called)
	assert.Equal(t, "run-1", out.Body.ID)
	assert.Len(t, out.Body.Sections, 1)
}

func TestDigestHandler_Trigger_Error(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{err: errors.New("paging API down")}
	h := NewDigestHandler(runner)

	_, err := h.Trigger(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest failed")
}

func TestReportsHandler_Get(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.On("GetReport", mock.Anything, "run-1").Return(sampleReport(), nil).Once()

	h := NewReportsHandler(ms)

	out, err := h.Get(context.Background(), &GetReportInput{ID: "run-1"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", out.Body.ID)
}

func TestReportsHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.On("GetReport", mock.Anything, "missing").
		Return(nil, store.ErrNotFound).Once()

	h := NewReportsHandler(ms)

	_, err := h.Get(context.Background(), &GetReportInput{ID: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReportsHandler_Latest(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.On("LatestReport", mock.Anything).Return(sampleReport(), nil).Once()

	h := NewReportsHandler(ms)

	out, err := h.Latest(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "run-1", out.Body.ID)
}

func TestReportsHandler_Latest_Empty(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.On("LatestReport", mock.Anything).Return(nil, store.ErrNotFound).Once()

	h := NewReportsHandler(ms)

	_, err := h.Latest(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reports generated yet")
}

func TestReportsHandler_List(t *testing.T) {
	t.Parallel()

	runs := []domain.Report{*sampleReport()}
	ms := storeMocks.NewMockStore(t)
	ms.On("ListReports", mock.Anything, 50).Return(runs, nil).Once()

	h := NewReportsHandler(ms)

	out, err := h.List(context.Background(), &ListReportsInput{Limit: 50})
	require.NoError(t, err)
	require.Len(t, out.Body.Reports, 1)
	assert.Equal(t, "run-1", out.Body.Reports[0].ID)
}
