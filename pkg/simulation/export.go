package simulation

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/opengrid-project/gridctl/pkg/codec"
	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
)

var csvHeader = []string{"node_id", "timestamp", "kwh", "lat", "lon", "location"}

// WriteCSV exports measurements in the UtilityAPI-compatible column layout
// the rest of the tooling ingests.
func WriteCSV(w io.Writer, points []models.DataPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, p := range points {
		record := []string{
			strconv.FormatUint(p.NodeID, 10),
			strconv.FormatInt(p.Timestamp.Unix(), 10),
			strconv.FormatFloat(float64(p.Measurement)/codec.MeasurementScale, 'f', 3, 64),
			strconv.FormatFloat(float64(p.Latitude)/codec.CoordScale, 'f', 4, 64),
			strconv.FormatFloat(float64(p.Longitude)/codec.CoordScale, 'f', 4, 64),
			p.Location,
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "writing csv record")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

// ReadCSV parses measurements back from the exported column layout. Rows keep
// their file order so downstream batching stays deterministic.
func ReadCSV(r io.Reader) ([]models.DataPoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	if len(rows) == 0 {
		return nil, griderrors.NewValidationError("csv input is empty")
	}
	if rows[0][0] == csvHeader[0] {
		rows = rows[1:]
	}

	points := make([]models.DataPoint, 0, len(rows))
	for i, row := range rows {
		nodeID, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			return nil, griderrors.NewValidationError("row %d: node id %q is not a number", i+1, row[0])
		}
		ts, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return nil, griderrors.NewValidationError("row %d: timestamp %q is not a unix time", i+1, row[1])
		}
		kwh, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, griderrors.NewValidationError("row %d: kwh %q is not a number", i+1, row[2])
		}
		lat, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, griderrors.NewValidationError("row %d: lat %q is not a number", i+1, row[3])
		}
		lon, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, griderrors.NewValidationError("row %d: lon %q is not a number", i+1, row[4])
		}
		points = append(points, models.DataPoint{
			Timestamp:   time.Unix(ts, 0).UTC(),
			Measurement: int64(math.Round(kwh * codec.MeasurementScale)),
			Location:    row[5],
			Latitude:    int64(math.Round(lat * codec.CoordScale)),
			Longitude:   int64(math.Round(lon * codec.CoordScale)),
			NodeID:      nodeID,
		})
	}
	return points, nil
}
