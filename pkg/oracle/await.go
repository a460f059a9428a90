package oracle

import (
	"context"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/poller"
)

// AwaitResponse polls the probe until the callback is observed or the attempt
// budget runs out. An exhausted budget is inconclusive, not an error: the
// compute network may still fulfill after we stop watching, so the request
// stays pending and the caller re-checks later. This mirrors how delivery
// confirmation treats a timed-out poll.
func AwaitResponse(ctx context.Context, p *poller.Poller, probe poller.Probe) (poller.Result, bool, error) {
	result, err := p.Await(ctx, probe)
	if err != nil {
		if griderrors.IsInconclusive(err) {
			return result, false, nil
		}
		return result, false, err
	}
	return result, result.State == poller.StateConfirmed, nil
}
