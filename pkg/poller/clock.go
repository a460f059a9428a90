package poller

import (
	"context"
	"time"
)

// Clock abstracts the wait between polling attempts so the poller can be
// driven in tests without wall-clock delays.
type Clock interface {
	// Sleep blocks for d or until ctx is cancelled, returning ctx.Err() in
	// the cancelled case.
	Sleep(ctx context.Context, d time.Duration) error
}

// WallClock sleeps against real time.
type WallClock struct{}

func (WallClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// compile time check whether WallClock implements the Clock interface.
var _ Clock = WallClock{}
