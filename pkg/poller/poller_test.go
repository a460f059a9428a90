//go:build unit || !integration

package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/logger"
)

// fakeClock records requested sleeps and returns immediately.
type fakeClock struct {
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return nil
}

type PollerTestSuite struct {
	suite.Suite
	clock *fakeClock
}

func (suite *PollerTestSuite) SetupTest() {
	logger.ConfigureTestLogging(suite.T())
	suite.clock = &fakeClock{}
}

func (suite *PollerTestSuite) poller(maxAttempts int) *Poller {
	return New(15*time.Second, maxAttempts, WithClock(suite.clock))
}

func (suite *PollerTestSuite) TestTimesOutAfterExactlyMaxAttempts() {
	probes := 0
	result, err := suite.poller(7).Await(context.Background(), func(context.Context) (bool, error) {
		probes++
		return false, nil
	})

	suite.Require().Error(err)
	suite.True(griderrors.IsInconclusive(err))
	suite.Equal(StateTimedOut, result.State)
	suite.Equal(7, result.Attempts)
	suite.Equal(7, probes)
	// First attempt probes immediately; every later attempt waits one interval.
	suite.Len(suite.clock.sleeps, 6)
}

func (suite *PollerTestSuite) TestConfirmsAtAttemptKAndStopsProbing() {
	const k = 4
	probes := 0
	result, err := suite.poller(10).Await(context.Background(), func(context.Context) (bool, error) {
		probes++
		return probes == k, nil
	})

	suite.Require().NoError(err)
	suite.Equal(StateConfirmed, result.State)
	suite.Equal(k, result.Attempts)
	suite.Equal(k, probes)
}

func (suite *PollerTestSuite) TestConfirmsImmediatelyWithoutSleeping() {
	result, err := suite.poller(10).Await(context.Background(), func(context.Context) (bool, error) {
		return true, nil
	})

	suite.Require().NoError(err)
	suite.Equal(1, result.Attempts)
	suite.Empty(suite.clock.sleeps)
}

func (suite *PollerTestSuite) TestProbeErrorsConsumeAttemptsButKeepPolling() {
	readErr := errors.New("rpc connection refused")
	probes := 0
	result, err := suite.poller(3).Await(context.Background(), func(context.Context) (bool, error) {
		probes++
		if probes < 3 {
			return false, readErr
		}
		return true, nil
	})

	suite.Require().NoError(err)
	suite.Equal(StateConfirmed, result.State)
	suite.Equal(3, result.Attempts)
	suite.Equal(readErr, result.LastErr)
}

func (suite *PollerTestSuite) TestTimeoutReportsLastProbeError() {
	readErr := errors.New("rpc connection refused")
	result, err := suite.poller(2).Await(context.Background(), func(context.Context) (bool, error) {
		return false, readErr
	})

	suite.Require().Error(err)
	suite.Equal(StateTimedOut, result.State)
	suite.Equal(readErr, result.LastErr)
}

func (suite *PollerTestSuite) TestCancellationStopsInPending() {
	ctx, cancel := context.WithCancel(context.Background())
	probes := 0
	result, err := suite.poller(10).Await(ctx, func(context.Context) (bool, error) {
		probes++
		cancel()
		return false, ctx.Err()
	})

	suite.Require().ErrorIs(err, context.Canceled)
	suite.Equal(StatePending, result.State)
	suite.Equal(1, probes)
}

func (suite *PollerTestSuite) TestWallClockSleepHonoursCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WallClock{}.Sleep(ctx, time.Minute)
	suite.ErrorIs(err, context.Canceled)
}

func TestPollerTestSuite(t *testing.T) {
	suite.Run(t, new(PollerTestSuite))
}
