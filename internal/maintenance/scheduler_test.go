package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	calls atomic.Int32
	n     int
	err   error
}

func (j *countingJob) Sweep(ctx context.Context) (int, error) {
	j.calls.Add(1)
	return j.n, j.err
}

func (j *countingJob) Reconcile(ctx context.Context) (int, error) {
	j.calls.Add(1)
	return j.n, j.err
}

func TestRunOnceRunsBothJobs(t *testing.T) {
	sweeper := &countingJob{n: 2}
	reconciler := &countingJob{err: errors.New("store down")}

	s, err := NewScheduler("@every 1h", sweeper, reconciler)
	require.NoError(t, err)

	s.RunOnce()
	assert.EqualValues(t, 1, sweeper.calls.Load())
	assert.EqualValues(t, 1, reconciler.calls.Load(), "a failing job is logged, not fatal")
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler("every now and then", nil, nil)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	sweeper := &countingJob{}
	s, err := NewScheduler("@every 1h", sweeper, nil)
	require.NoError(t, err)

	s.Start()
	s.Stop()
	assert.Eventually(t, func() bool { return sweeper.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
}
