package history_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GintGld/chat-envboot/internal/lib/logger/handlers/slogdiscard"
	"github.com/GintGld/chat-envboot/internal/models"
	"github.com/GintGld/chat-envboot/internal/service"
	"github.com/GintGld/chat-envboot/internal/service/history"
	"github.com/GintGld/chat-envboot/internal/storage"
)

type runStorageStub struct {
	lastLimit int
	err       error
}

func (s *runStorageStub) Run(_ context.Context, id int64) (models.Report, error) {
	if s.err != nil {
		return models.Report{}, s.err
	}
	if id != 1 {
		return models.Report{}, fmt.Errorf("stub: %w", storage.ErrRunNotFound)
	}
	return models.Report{ID: 1, Path: ".env", Found: true}, nil
}

func (s *runStorageStub) Runs(_ context.Context, limit int) ([]models.Report, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []models.Report{{ID: 1}}, nil
}

func TestRun(t *testing.T) {
	h := history.New(slogdiscard.NewDiscardLogger(), &runStorageStub{})

	report, err := h.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.ID)

	_, err = h.Run(context.Background(), 2)
	require.ErrorIs(t, err, service.ErrRunNotFound)
}

func TestRunsLimit(t *testing.T) {
	testCases := []struct {
		desc   string
		limit  int
		expect int
	}{
		{desc: "default", limit: 0, expect: 20},
		{desc: "negative", limit: -5, expect: 20},
		{desc: "as is", limit: 7, expect: 7},
		{desc: "truncated", limit: 1000, expect: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			stub := &runStorageStub{}
			h := history.New(slogdiscard.NewDiscardLogger(), stub)

			_, err := h.Runs(context.Background(), tc.limit)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, stub.lastLimit)
		})
	}
}

func TestTimeout(t *testing.T) {
	h := history.New(slogdiscard.NewDiscardLogger(), &runStorageStub{err: storage.ErrContextCancelled})

	_, err := h.Runs(context.Background(), 1)
	require.ErrorIs(t, err, service.ErrTimeout)
}

func TestDisabled(t *testing.T) {
	h := history.New(slogdiscard.NewDiscardLogger(), nil)

	_, err := h.Runs(context.Background(), 1)
	require.ErrorIs(t, err, service.ErrHistoryDisabled)

	_, err = h.Run(context.Background(), 1)
	require.ErrorIs(t, err, service.ErrHistoryDisabled)
}
