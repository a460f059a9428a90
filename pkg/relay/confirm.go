package relay

import (
	"context"

	"github.com/opengrid-project/gridctl/pkg/models"
	"github.com/opengrid-project/gridctl/pkg/poller"
)

// CountProbe builds a poller probe that reports success once the destination
// relay has applied more envelopes than the baseline taken before the send.
func CountProbe(dest *Client, baseline uint64) poller.Probe {
	return func(ctx context.Context) (bool, error) {
		count, err := dest.ReceivedCount(ctx)
		if err != nil {
			return false, err
		}
		return count > baseline, nil
	}
}

// ConfirmDelivery watches the destination relay for the envelope to land and
// maps the poll outcome onto the delivery record. A timed-out poll marks the
// delivery unknown, not failed: the relay network may still deliver after the
// polling budget expires.
func ConfirmDelivery(
	ctx context.Context,
	p *poller.Poller,
	dest *Client,
	baseline uint64,
	delivery *models.Delivery,
) (poller.Result, error) {
	result, err := p.Await(ctx, CountProbe(dest, baseline))
	switch result.State {
	case poller.StateConfirmed:
		delivery.Status = models.DeliveryConfirmed
	case poller.StateTimedOut:
		delivery.Status = models.DeliveryUnknown
		delivery.Message = "polling budget exhausted; re-check later or resubmit"
	default:
		// Cancelled while pending; leave the inflight status untouched.
	}
	return result, err
}
