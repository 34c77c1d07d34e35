package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) FindUnconvertedOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*entity.RawLead, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.RawLead), args.Error(1)
}

func TestRunOnce_ReportsStaleRawLeads(t *testing.T) {
	finder := new(MockFinder)
	core, logs := observer.New(zap.WarnLevel)
	reported := -1

	w := NewReconcileWorker(finder, time.Hour, time.Minute, 50, func(n int) { reported = n }, zap.New(core))
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	finder.On("FindUnconvertedOlderThan", mock.Anything, now.Add(-time.Hour), 50).Return([]*entity.RawLead{
		{ID: "raw-1", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "raw-2", CreatedAt: now.Add(-3 * time.Hour)},
	}, nil)

	n := w.RunOnce(context.Background())

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, reported)
	assert.Equal(t, 2, logs.FilterMessage("raw lead not converted").Len())
	finder.AssertExpectations(t)
}

func TestRunOnce_RepositoryError(t *testing.T) {
	finder := new(MockFinder)
	reported := -1
	w := NewReconcileWorker(finder, 0, 0, 0, func(n int) { reported = n }, nil)

	finder.On("FindUnconvertedOlderThan", mock.Anything, mock.Anything, 100).Return(nil, errors.New("db down"))

	assert.Zero(t, w.RunOnce(context.Background()))
	assert.Equal(t, -1, reported)
}

func TestStart_StopsOnCancel(t *testing.T) {
	finder := new(MockFinder)
	finder.On("FindUnconvertedOlderThan", mock.Anything, mock.Anything, mock.Anything).Return([]*entity.RawLead{}, nil)
	w := NewReconcileWorker(finder, time.Minute, 10*time.Millisecond, 10, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	finder.AssertCalled(t, "FindUnconvertedOlderThan", mock.Anything, mock.Anything, 10)
}
