//go:build unit || !integration

package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/opengrid-project/gridctl/pkg/logger"
)

func TestSplit(t *testing.T) {
	logger.ConfigureTestLogging(t)

	testcases := []struct {
		name      string
		records   int
		batchSize int
		sizes     []int
	}{
		{name: "five records batch three", records: 5, batchSize: 3, sizes: []int{3, 2}},
		{name: "exact multiple", records: 6, batchSize: 3, sizes: []int{3, 3}},
		{name: "single short batch", records: 2, batchSize: 10, sizes: []int{2}},
		{name: "batch size one", records: 3, batchSize: 1, sizes: []int{1, 1, 1}},
		{name: "empty input", records: 0, batchSize: 3, sizes: nil},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			records := make([]int, tc.records)
			for i := range records {
				records[i] = i
			}

			chunks := Split(records, tc.batchSize)
			require.Len(t, chunks, len(tc.sizes))

			flattened := []int{}
			for i, chunk := range chunks {
				assert.Len(t, chunk, tc.sizes[i])
				flattened = append(flattened, chunk...)
			}
			// Every record in exactly one chunk, original order preserved.
			assert.Equal(t, records, flattened)
		})
	}
}

type fakeClock struct {
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return nil
}

type SubmitterTestSuite struct {
	suite.Suite
	clock *fakeClock
}

func (suite *SubmitterTestSuite) SetupTest() {
	logger.ConfigureTestLogging(suite.T())
	suite.clock = &fakeClock{}
}

func (suite *SubmitterTestSuite) submitter(batchSize int) *Submitter[int] {
	s, err := NewSubmitter[int](batchSize, 2*time.Second, WithClock[int](suite.clock))
	suite.Require().NoError(err)
	return s
}

func (suite *SubmitterTestSuite) TestSubmitsChunksInOrder() {
	var submitted [][]int
	results, err := suite.submitter(3).SubmitAll(context.Background(), []int{1, 2, 3, 4, 5},
		func(_ context.Context, chunk []int) error {
			submitted = append(submitted, chunk)
			return nil
		})

	suite.Require().NoError(err)
	suite.Equal([][]int{{1, 2, 3}, {4, 5}}, submitted)
	suite.Equal([]Result{{Chunk: 0, Size: 3}, {Chunk: 1, Size: 2}}, results)
	// One pause between the two chunks, none before the first.
	suite.Len(suite.clock.sleeps, 1)
}

func (suite *SubmitterTestSuite) TestFailedChunkDoesNotStopLaterChunks() {
	boom := errors.New("insufficient fee")
	var submitted [][]int
	results, err := suite.submitter(2).SubmitAll(context.Background(), []int{1, 2, 3, 4, 5, 6},
		func(_ context.Context, chunk []int) error {
			submitted = append(submitted, chunk)
			if chunk[0] == 3 {
				return boom
			}
			return nil
		})

	suite.Require().Error(err)
	suite.Len(submitted, 3)
	suite.Empty(results[0].Error)
	suite.Contains(results[1].Error, "insufficient fee")
	suite.Empty(results[2].Error)
}

func (suite *SubmitterTestSuite) TestCancellationStopsBetweenChunks() {
	ctx, cancel := context.WithCancel(context.Background())
	results, err := suite.submitter(1).SubmitAll(ctx, []int{1, 2, 3},
		func(_ context.Context, chunk []int) error {
			cancel()
			return nil
		})

	suite.Require().ErrorIs(err, context.Canceled)
	suite.Len(results, 1)
}

func (suite *SubmitterTestSuite) TestRejectsNonPositiveBatchSize() {
	_, err := NewSubmitter[int](0, 0)
	suite.Error(err)
}

func TestSubmitterTestSuite(t *testing.T) {
	suite.Run(t, new(SubmitterTestSuite))
}
