package codec

import (
	"math/big"
	"time"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
)

// Fixed-point scales shared with the contracts. Coordinates keep four decimal
// places (about 11 m of precision, enough for grid-asset placement) and
// measurements keep three, so no floating point ever touches the wire.
const (
	CoordScale       = 10_000
	MeasurementScale = 1_000
)

// Coordinate bias shifts signed degrees into the unsigned field range.
const (
	latBias = 90 * CoordScale
	lonBias = 180 * CoordScale
)

// DataPointSchema is the packed layout for a single measurement record:
// 144 bits total, well inside one EVM word.
var DataPointSchema = MustSchema(
	Field{Name: "timestamp", Bits: 40},
	Field{Name: "measurement", Bits: 32, Scale: MeasurementScale},
	Field{Name: "latitude", Bits: 28, Scale: CoordScale},
	Field{Name: "longitude", Bits: 28, Scale: CoordScale},
	Field{Name: "nodeId", Bits: 16},
)

// PackDataPoint encodes one measurement into a single packed word. Signed
// coordinates are biased into unsigned range before packing.
func PackDataPoint(dp models.DataPoint) (*big.Int, error) {
	if dp.Measurement < 0 {
		return nil, griderrors.NewValidationError("measurement %d must be non-negative", dp.Measurement)
	}
	if dp.Latitude < -latBias || dp.Latitude > latBias {
		return nil, griderrors.NewValidationError("latitude %d out of range", dp.Latitude)
	}
	if dp.Longitude < -lonBias || dp.Longitude > lonBias {
		return nil, griderrors.NewValidationError("longitude %d out of range", dp.Longitude)
	}
	return DataPointSchema.Encode(map[string]uint64{
		"timestamp":   uint64(dp.Timestamp.Unix()),
		"measurement": uint64(dp.Measurement),
		"latitude":    uint64(dp.Latitude + latBias),
		"longitude":   uint64(dp.Longitude + lonBias),
		"nodeId":      dp.NodeID,
	})
}

// UnpackDataPoint decodes a packed word back into a measurement record.
// Reporter and the textual location are not carried on the wire; the receiver
// fills them in from the message origin.
func UnpackDataPoint(word *big.Int) (models.DataPoint, error) {
	values, err := DataPointSchema.Decode(word)
	if err != nil {
		return models.DataPoint{}, err
	}
	return models.DataPoint{
		Timestamp:   time.Unix(int64(values["timestamp"]), 0).UTC(),
		Measurement: int64(values["measurement"]),
		Latitude:    int64(values["latitude"]) - latBias,
		Longitude:   int64(values["longitude"]) - lonBias,
		NodeID:      values["nodeId"],
	}, nil
}
