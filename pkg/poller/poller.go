// Package poller confirms cross-chain delivery by re-reading destination
// state on a fixed interval until an expected condition holds or the attempt
// budget runs out. A timed-out poll is inconclusive, not a failure: the relay
// network may still deliver after we stop watching.
package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

type State string

const (
	StatePending   State = "Pending"
	StateConfirmed State = "Confirmed"
	StateTimedOut  State = "TimedOut"
)

// Probe reads destination-side state and reports whether the expected
// post-condition holds. Read errors are tolerated: transient RPC failures
// consume an attempt but do not abort the poll.
type Probe func(ctx context.Context) (bool, error)

// Result is the terminal observation of one poll run.
type Result struct {
	State    State
	Attempts int
	// LastErr carries the most recent probe error, if any attempt failed to
	// read. Informational only; it does not decide the terminal state.
	LastErr error
}

type Poller struct {
	interval    time.Duration
	maxAttempts int
	clock       Clock
}

type Option func(*Poller)

// WithClock swaps the wall clock for an injected one. Tests use this to run
// the full attempt budget instantly.
func WithClock(clock Clock) Option {
	return func(p *Poller) {
		p.clock = clock
	}
}

func New(interval time.Duration, maxAttempts int, opts ...Option) *Poller {
	p := &Poller{
		interval:    interval,
		maxAttempts: maxAttempts,
		clock:       WallClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Await drives the Pending -> Confirmed | TimedOut state machine. The probe
// runs once per attempt; on the first attempt where it reports true the poll
// stops immediately with StateConfirmed. After maxAttempts unsatisfied
// attempts the poll stops with StateTimedOut and an inconclusive-timeout
// error. Cancelling ctx stops the poll in StatePending.
func (p *Poller) Await(ctx context.Context, probe Probe) (Result, error) {
	result := Result{State: StatePending}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := p.clock.Sleep(ctx, p.interval); err != nil {
				return result, err
			}
		}

		result.Attempts = attempt
		ok, err := probe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.LastErr = err
			log.Ctx(ctx).Debug().Err(err).
				Int("attempt", attempt).
				Int("maxAttempts", p.maxAttempts).
				Msg("delivery probe failed, will retry")
			continue
		}
		if ok {
			result.State = StateConfirmed
			return result, nil
		}
		log.Ctx(ctx).Debug().
			Int("attempt", attempt).
			Int("maxAttempts", p.maxAttempts).
			Msg("delivery not yet observed")
	}

	result.State = StateTimedOut
	return result, griderrors.NewTimeoutError(p.maxAttempts)
}
