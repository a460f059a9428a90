// Package oracle tracks in-flight off-chain compute requests and matches
// asynchronous callbacks back to them. The compute network itself is external
// infrastructure; this package only correlates responses with requests and
// decodes the packed result word.
package oracle

import (
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
)

// Request is one registered compute request awaiting its callback.
type Request struct {
	ID        uint64    `json:"id"`
	Source    string    `json:"source"`
	Args      []string  `json:"args,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fulfillment is a matched and decoded oracle callback.
type Fulfillment struct {
	Request Request          `json:"request"`
	Record  models.DataPoint `json:"record"`
}

// Registry correlates callbacks with pending requests. Fulfillments may
// arrive from an event-subscription goroutine, so the pending set is guarded.
type Registry struct {
	mu      sync.Mutex
	pending map[uint64]Request
}

func NewRegistry() *Registry {
	return &Registry{
		pending: make(map[uint64]Request),
	}
}

// Track registers a request so its eventual callback can be matched.
func (r *Registry) Track(req Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[req.ID] = req
}

// Pending reports how many requests still await a callback.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Fulfill matches a callback to its pending request and decodes the single
// packed word the response carries. Callbacks for unknown request ids are
// rejected: applying a mismatched response would attribute data to the wrong
// request. A non-empty oracleErr means the compute itself failed; the request
// is closed and the error surfaced.
func (r *Registry) Fulfill(requestID uint64, response []byte, oracleErr []byte) (Fulfillment, error) {
	r.mu.Lock()
	req, ok := r.pending[requestID]
	if ok {
		delete(r.pending, requestID)
	}
	r.mu.Unlock()

	if !ok {
		return Fulfillment{}, griderrors.NewOracleMismatchError(requestID)
	}
	if len(oracleErr) > 0 {
		return Fulfillment{}, griderrors.NewDeliveryError(
			"oracle request %d failed off-chain: %s", requestID, string(oracleErr))
	}
	if len(response) == 0 {
		return Fulfillment{}, griderrors.NewValidationError("oracle request %d returned an empty response", requestID)
	}

	record, err := codec.UnpackDataPoint(new(big.Int).SetBytes(response))
	if err != nil {
		return Fulfillment{}, err
	}
	log.Debug().
		Uint64("requestId", requestID).
		Uint64("nodeId", record.NodeID).
		Int64("measurement", record.Measurement).
		Msg("oracle callback matched and decoded")
	return Fulfillment{Request: req, Record: record}, nil
}
