package bootstrap

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/lexdesk/config"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeIdle(context.Context, time.Time, int) (int64, error) {
	p.calls.Add(1)
	return 0, nil
}

func TestRunReaper_StopsOnCancel(t *testing.T) {
	purger := &countingPurger{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunReaper(ctx, ReaperConfig{
			Logger: discardLogger(),
			Config: config.ReaperConfig{Interval: time.Hour, IdleMaxAge: time.Hour, BatchSize: 10},
			Repo:   purger,
		})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reaper did not stop")
	}
	assert.LessOrEqual(t, purger.calls.Load(), int32(1))
}

func TestRunReaper_RequiresStorage(t *testing.T) {
	err := RunReaper(context.Background(), ReaperConfig{Config: config.ReaperConfig{Interval: time.Minute}})
	require.Error(t, err)
}
