// Package batch splits large record sets into bounded chunks and submits
// them one transaction at a time. Oversized single-message submissions are
// the dominant cross-chain failure mode in the field, so everything that
// leaves the toolkit goes through here.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/poller"
)

// Split chunks records into ceil(len/size) slices, preserving order. Every
// record lands in exactly one chunk; only the final chunk may be short.
func Split[T any](records []T, size int) [][]T {
	if size <= 0 || len(records) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

// SubmitFunc performs one externally visible state-changing call for a single
// chunk, awaiting confirmation before returning.
type SubmitFunc[T any] func(ctx context.Context, chunk []T) error

// Result records the outcome of one chunk so callers can reconcile partial
// success against before/after record counts.
type Result struct {
	Chunk int    `json:"chunk"`
	Size  int    `json:"size"`
	Error string `json:"error,omitempty"`
}

type Submitter[T any] struct {
	batchSize int
	delay     time.Duration
	clock     poller.Clock
}

type Option[T any] func(*Submitter[T])

// WithClock swaps the inter-chunk wait for an injected clock in tests.
func WithClock[T any](clock poller.Clock) Option[T] {
	return func(s *Submitter[T]) {
		s.clock = clock
	}
}

// NewSubmitter builds a submitter that sends batchSize records per call and
// pauses delay between calls to stay clear of the provider's pending
// transaction limits.
func NewSubmitter[T any](batchSize int, delay time.Duration, opts ...Option[T]) (*Submitter[T], error) {
	if batchSize <= 0 {
		return nil, griderrors.NewValidationError("batch size must be positive, got %d", batchSize)
	}
	s := &Submitter[T]{
		batchSize: batchSize,
		delay:     delay,
		clock:     poller.WallClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitAll sends every chunk in order, each awaited to completion before the
// next begins. A failed chunk is logged and recorded but does not stop later
// chunks: delivery is at-least-once best-effort with no rollback. The
// returned error aggregates all chunk failures, or is nil on full success.
// Context cancellation stops the run between chunks.
func (s *Submitter[T]) SubmitAll(ctx context.Context, records []T, submit SubmitFunc[T]) ([]Result, error) {
	chunks := Split(records, s.batchSize)
	runID := uuid.NewString()
	logCtx := log.Ctx(ctx).With().Str("run", runID).Logger()
	logCtx.Info().
		Int("records", len(records)).
		Int("chunks", len(chunks)).
		Int("batchSize", s.batchSize).
		Msg("submitting records in batches")

	var errs *multierror.Error
	results := make([]Result, 0, len(chunks))
	for i, chunk := range chunks {
		if i > 0 && s.delay > 0 {
			if err := s.clock.Sleep(ctx, s.delay); err != nil {
				return results, err
			}
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := Result{Chunk: i, Size: len(chunk)}
		if err := submit(ctx, chunk); err != nil {
			result.Error = err.Error()
			errs = multierror.Append(errs, griderrors.NewDeliveryError("chunk %d of %d failed", i+1, len(chunks)).WithCause(err))
			logCtx.Error().Err(err).
				Int("chunk", i+1).
				Int("chunks", len(chunks)).
				Msg("chunk submission failed, continuing with remaining chunks")
		} else {
			logCtx.Info().
				Int("chunk", i+1).
				Int("chunks", len(chunks)).
				Int("size", len(chunk)).
				Msg("chunk submitted")
		}
		results = append(results, result)
	}

	return results, errs.ErrorOrNil()
}
