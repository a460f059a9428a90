//go:build unit || !integration

package simulation

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengrid-project/gridctl/pkg/logger"
	"github.com/opengrid-project/gridctl/pkg/models"
)

func TestCSVRoundTrip(t *testing.T) {
	logger.ConfigureTestLogging(t)

	points := []models.DataPoint{
		{
			Timestamp:   time.Unix(1700000000, 0).UTC(),
			Measurement: 2500,
			Location:    "lat:40.7580,lon:-73.9855",
			Latitude:    407580,
			Longitude:   -739855,
			NodeID:      3,
		},
		{
			Timestamp:   time.Unix(1700003600, 0).UTC(),
			Measurement: 125,
			Location:    "lat:33.4484,lon:-112.0740",
			Latitude:    334484,
			Longitude:   -1120740,
			NodeID:      17,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, points))

	parsed, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(points))
	for i := range points {
		assert.Equal(t, points[i].NodeID, parsed[i].NodeID)
		assert.Equal(t, points[i].Timestamp, parsed[i].Timestamp)
		assert.Equal(t, points[i].Measurement, parsed[i].Measurement)
		assert.Equal(t, points[i].Latitude, parsed[i].Latitude)
		assert.Equal(t, points[i].Longitude, parsed[i].Longitude)
		assert.Equal(t, points[i].Location, parsed[i].Location)
	}
}

func TestReadCSVWithoutHeader(t *testing.T) {
	logger.ConfigureTestLogging(t)

	parsed, err := ReadCSV(strings.NewReader("3,1700000000,2.500,40.7580,-73.9855,midtown\n"))
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, uint64(3), parsed[0].NodeID)
	assert.Equal(t, int64(2500), parsed[0].Measurement)
}

func TestReadCSVRejectsMalformedRows(t *testing.T) {
	logger.ConfigureTestLogging(t)

	testcases := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "bad node id", input: "abc,1700000000,2.5,40.75,-73.98,x\n"},
		{name: "bad timestamp", input: "3,not-a-time,2.5,40.75,-73.98,x\n"},
		{name: "bad kwh", input: "3,1700000000,lots,40.75,-73.98,x\n"},
		{name: "wrong column count", input: "3,1700000000,2.5\n"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}
