//go:build unit || !integration

package simulation

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opengrid-project/gridctl/pkg/codec"
)

func TestGenerateNodesPlacesWithinMetroBounds(t *testing.T) {
	g := NewGenerator(42)
	nodes, err := g.GenerateNodes(50, "")
	require.NoError(t, err)
	require.Len(t, nodes, 50)

	bounds := make(map[string]MetroArea)
	for _, area := range MetroAreas {
		bounds[area.Name] = area
	}

	for i, sn := range nodes {
		assert.Equal(t, uint64(i+1), sn.Node.ID, "ids are sequential and start at 1")
		area, ok := bounds[sn.Metro]
		require.True(t, ok, "node assigned to unknown metro %q", sn.Metro)

		lat := float64(sn.Node.Latitude) / codec.CoordScale
		lon := float64(sn.Node.Longitude) / codec.CoordScale
		if sn.Pattern == "commercial" {
			// Commercial placement is pulled toward the center, which keeps
			// it inside the blended envelope of bounds and center.
			assert.InDelta(t, area.CenterLat, lat, 1.0)
			assert.InDelta(t, area.CenterLon, lon, 1.0)
		} else {
			assert.GreaterOrEqual(t, lat, area.LatMin-0.0001)
			assert.LessOrEqual(t, lat, area.LatMax+0.0001)
			assert.GreaterOrEqual(t, lon, area.LonMin-0.0001)
			assert.LessOrEqual(t, lon, area.LonMax+0.0001)
		}
	}
}

func TestGenerateNodesIsDeterministicPerSeed(t *testing.T) {
	first, err := NewGenerator(7).GenerateNodes(10, "residential")
	require.NoError(t, err)
	second, err := NewGenerator(7).GenerateNodes(10, "residential")
	require.NoError(t, err)

	for i := range first {
		// RegisteredAt derives from wall clock; compare the seeded parts.
		assert.Equal(t, first[i].Node.Location, second[i].Node.Location)
		assert.Equal(t, first[i].Multiplier, second[i].Multiplier)
		assert.Equal(t, first[i].Metro, second[i].Metro)
	}
}

func TestGenerateNodesRejectsBadInput(t *testing.T) {
	g := NewGenerator(1)

	_, err := g.GenerateNodes(0, "")
	assert.Error(t, err)

	_, err = g.GenerateNodes(5, "agricultural")
	assert.Error(t, err)
}

func TestGenerateSeriesShapesLoad(t *testing.T) {
	g := NewGenerator(42)
	nodes, err := g.GenerateNodes(5, "residential")
	require.NoError(t, err)

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	points, err := g.GenerateSeries(nodes, start, 48, 0)
	require.NoError(t, err)

	active := 0
	for _, sn := range nodes {
		if sn.Node.Active {
			active++
		}
	}
	require.Len(t, points, active*48)

	var peakSum, baseSum float64
	var peakN, baseN int
	for _, p := range points {
		kwh := float64(p.Measurement) / codec.MeasurementScale
		assert.Greater(t, kwh, 0.0)
		switch p.Timestamp.Hour() {
		case 18, 19, 20, 21:
			peakSum += kwh
			peakN++
		case 2, 3, 4:
			baseSum += kwh
			baseN++
		}
	}
	require.NotZero(t, peakN)
	require.NotZero(t, baseN)
	assert.Greater(t, peakSum/float64(peakN), baseSum/float64(baseN),
		"evening peak hours draw more than overnight baseline")
}

func TestGenerateSeriesSkipsInactiveNodes(t *testing.T) {
	g := NewGenerator(1)
	nodes, err := g.GenerateNodes(1, "residential")
	require.NoError(t, err)
	nodes[0].Node.Active = false

	points, err := g.GenerateSeries(nodes, time.Now(), 24, 0)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestGenerateSeriesValidatesInput(t *testing.T) {
	g := NewGenerator(1)
	nodes, err := g.GenerateNodes(1, "")
	require.NoError(t, err)

	_, err = g.GenerateSeries(nodes, time.Now(), 0, 0)
	assert.Error(t, err)

	_, err = g.GenerateSeries(nodes, time.Now(), 24, 1.5)
	assert.Error(t, err)
}

func TestGeneratedPointsSurviveThePackedCodec(t *testing.T) {
	g := NewGenerator(42)
	nodes, err := g.GenerateNodes(3, "")
	require.NoError(t, err)

	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	points, err := g.GenerateSeries(nodes, start, 6, 0.1)
	require.NoError(t, err)

	for _, p := range points {
		word, err := codec.PackDataPoint(p)
		require.NoError(t, err)
		back, err := codec.UnpackDataPoint(word)
		require.NoError(t, err)
		assert.Equal(t, p.Measurement, back.Measurement)
		assert.Equal(t, p.NodeID, back.NodeID)
		assert.Equal(t, p.Latitude, back.Latitude)
		assert.Equal(t, p.Longitude, back.Longitude)
	}
}

func TestWriteCSV(t *testing.T) {
	g := NewGenerator(42)
	nodes, err := g.GenerateNodes(2, "residential")
	require.NoError(t, err)
	points, err := g.GenerateSeries(nodes, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), 2, 0)
	require.NoError(t, err)
	require.NotEmpty(t, points)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, points))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "node_id,timestamp,kwh,lat,lon,location", lines[0])
	assert.Len(t, lines, len(points)+1)
}
