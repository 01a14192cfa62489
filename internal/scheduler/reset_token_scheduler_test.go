package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) SweepExpired(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep called without deadline")
	}
	return 2, s.err
}

func TestResetTokenScheduler_InvalidSchedule(t *testing.T) {
	s := NewResetTokenScheduler(&countingSweeper{}, "not a schedule")
	assert.Error(t, s.Start())
}

func TestResetTokenScheduler_RunsSweep(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewResetTokenScheduler(sweeper, "@every 1s")
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestResetTokenScheduler_SweepError(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	s := NewResetTokenScheduler(sweeper, "@every 1h")

	s.sweep()
	assert.Equal(t, int32(1), sweeper.calls.Load())
}
