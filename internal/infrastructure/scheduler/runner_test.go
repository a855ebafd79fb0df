package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewRunner_Validation(t *testing.T) {
	noop := func(context.Context) error { return nil }

	_, err := NewRunner(nil, Job{Name: "", Interval: time.Second, Run: noop})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = NewRunner(nil, Job{Name: "a", Interval: 0, Run: noop})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = NewRunner(nil, Job{Name: "a", Interval: time.Second})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = NewRunner(nil,
		Job{Name: "a", Interval: time.Second, Run: noop},
		Job{Name: "a", Interval: time.Second, Run: noop},
	)
	assert.ErrorIs(t, err, ErrInvalidJob)

	r, err := NewRunner(nil, Job{Name: "a", Interval: time.Second, Run: noop})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, r.Jobs())
}

func TestRunner_StartStop(t *testing.T) {
	var runs atomic.Int32
	r, err := NewRunner(zaptest.NewLogger(t), Job{
		Name:     "video-sync",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, r.Start(context.Background()))
	assert.True(t, r.IsRunning())
	assert.ErrorIs(t, r.Start(context.Background()), ErrAlreadyRunning)

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, r.Stop(context.Background()))
	assert.False(t, r.IsRunning())
	assert.ErrorIs(t, r.Stop(context.Background()), ErrNotRunning)
}

func TestRunner_RunOnStart(t *testing.T) {
	ran := make(chan struct{}, 1)
	r, err := NewRunner(nil, Job{
		Name:       "analytics-refresh",
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(context.Context) error {
			ran <- struct{}{}
			return nil
		},
	})
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))
	defer func() { require.NoError(t, r.Stop(context.Background())) }()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestRunner_NoOverlap(t *testing.T) {
	var active, maxActive atomic.Int32
	release := make(chan struct{})

	r, err := NewRunner(nil, Job{
		Name:     "scheduled-publish",
		Interval: 5 * time.Millisecond,
		Timeout:  time.Second,
		Run: func(ctx context.Context) error {
			n := active.Add(1)
			for {
				cur := maxActive.Load()
				if n <= cur || maxActive.CompareAndSwap(cur, n) {
					break
				}
			}
			select {
			case <-release:
			case <-ctx.Done():
			}
			active.Add(-1)
			return nil
		},
	})
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))

	time.Sleep(50 * time.Millisecond)
	assert.ErrorIs(t, r.RunNow(context.Background(), "scheduled-publish"), ErrJobBusy)
	close(release)

	require.NoError(t, r.Stop(context.Background()))
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestRunner_ErrorsAndPanicsAreContained(t *testing.T) {
	var calls atomic.Int32
	r, err := NewRunner(zaptest.NewLogger(t),
		Job{Name: "fails", Interval: time.Hour, Run: func(context.Context) error {
			calls.Add(1)
			return errors.New("provider down")
		}},
		Job{Name: "panics", Interval: time.Hour, Run: func(context.Context) error {
			panic("boom")
		}},
	)
	require.NoError(t, err)

	assert.EqualError(t, r.RunNow(context.Background(), "fails"), "provider down")
	assert.Equal(t, int32(1), calls.Load())

	err = r.RunNow(context.Background(), "panics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	assert.ErrorIs(t, r.RunNow(context.Background(), "missing"), ErrJobNotFound)
}

func TestRunner_StopWaitsForInFlight(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool

	r, err := NewRunner(nil, Job{
		Name:       "slow",
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			finished.Store(true)
			return nil
		},
	})
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))
	<-started

	require.NoError(t, r.Stop(context.Background()))
	assert.True(t, finished.Load())
}
