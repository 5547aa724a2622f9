package ports

import (
	"context"
	"time"
)

// ClientStatePurger removes the state of clients that have gone idle.
type ClientStatePurger interface {
	PurgeIdle(ctx context.Context, before time.Time, batchSize int) (int64, error)
}
