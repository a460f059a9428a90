//go:build unit || !integration

package codec

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
)

type SchemaTestSuite struct {
	suite.Suite
}

func (suite *SchemaTestSuite) TestRoundTrip() {
	// The reference tuple every implementation of this layout must agree on.
	values := map[string]uint64{
		"timestamp":   1700000000,
		"measurement": 2500,
		"latitude":    407580,
		"longitude":   739855,
		"nodeId":      3,
	}

	word, err := DataPointSchema.Encode(values)
	suite.Require().NoError(err)

	decoded, err := DataPointSchema.Decode(word)
	suite.Require().NoError(err)
	suite.Equal(values, decoded)
}

func (suite *SchemaTestSuite) TestKnownOffsets() {
	// Fields are shifted to cumulative offsets and OR-ed. Verify against a
	// hand-computed word so the layout can never silently shift.
	s := MustSchema(
		Field{Name: "a", Bits: 8},
		Field{Name: "b", Bits: 8},
		Field{Name: "c", Bits: 8},
	)
	word, err := s.Encode(map[string]uint64{"a": 0x11, "b": 0x22, "c": 0x33})
	suite.Require().NoError(err)
	suite.Equal(uint64(0x332211), word.Uint64())
}

func (suite *SchemaTestSuite) TestEncodeRejectsOverflow() {
	s := MustSchema(Field{Name: "small", Bits: 4})
	_, err := s.Encode(map[string]uint64{"small": 16})
	suite.Require().Error(err)
	suite.Equal(griderrors.CodeValidation, griderrors.Code(err))

	// Boundary value still fits.
	word, err := s.Encode(map[string]uint64{"small": 15})
	suite.Require().NoError(err)
	suite.Equal(uint64(15), word.Uint64())
}

func (suite *SchemaTestSuite) TestEncodeRejectsMissingField() {
	_, err := DataPointSchema.Encode(map[string]uint64{"timestamp": 1})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "missing value")
}

func (suite *SchemaTestSuite) TestDecodeRejectsOversizedWord() {
	s := MustSchema(Field{Name: "only", Bits: 8})
	word := new(big.Int).Lsh(big.NewInt(1), 9)
	_, err := s.Decode(word)
	suite.Require().Error(err)
}

func (suite *SchemaTestSuite) TestDecodeRejectsNegativeWord() {
	s := MustSchema(Field{Name: "only", Bits: 8})
	_, err := s.Decode(big.NewInt(-1))
	suite.Require().Error(err)
}

func (suite *SchemaTestSuite) TestSchemaValidation() {
	_, err := NewSchema()
	suite.Error(err)

	_, err = NewSchema(Field{Name: "wide", Bits: 65})
	suite.Error(err)

	_, err = NewSchema(Field{Name: "dup", Bits: 8}, Field{Name: "dup", Bits: 8})
	suite.Error(err)

	_, err = NewSchema(
		Field{Name: "a", Bits: 64}, Field{Name: "b", Bits: 64},
		Field{Name: "c", Bits: 64}, Field{Name: "d", Bits: 64},
		Field{Name: "e", Bits: 1},
	)
	suite.Error(err)
}

func (suite *SchemaTestSuite) TestPackDataPointRoundTrip() {
	dp := models.DataPoint{
		Timestamp:   time.Unix(1700000000, 0).UTC(),
		Measurement: 2500,
		Latitude:    407580,
		Longitude:   -739855, // west of Greenwich stays signed end to end
		NodeID:      3,
	}

	word, err := PackDataPoint(dp)
	suite.Require().NoError(err)

	got, err := UnpackDataPoint(word)
	suite.Require().NoError(err)
	suite.Equal(dp.Timestamp, got.Timestamp)
	suite.Equal(dp.Measurement, got.Measurement)
	suite.Equal(dp.Latitude, got.Latitude)
	suite.Equal(dp.Longitude, got.Longitude)
	suite.Equal(dp.NodeID, got.NodeID)
}

func (suite *SchemaTestSuite) TestPackDataPointRejectsOutOfRange() {
	_, err := PackDataPoint(models.DataPoint{Latitude: 91 * CoordScale})
	suite.Error(err)

	_, err = PackDataPoint(models.DataPoint{Measurement: -1})
	suite.Error(err)
}

func TestSchemaTestSuite(t *testing.T) {
	suite.Run(t, new(SchemaTestSuite))
}
