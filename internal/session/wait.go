package session

import (
	"context"
	"time"
)

// Wait blocks for d or until ctx is done, whichever comes first. It returns
// ctx.Err() when cancelled. A non-positive d returns immediately.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
