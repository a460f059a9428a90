//go:build unit || !integration

package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
)

type EnvelopeTestSuite struct {
	suite.Suite
	codec *EnvelopeCodec
}

func (suite *EnvelopeTestSuite) SetupTest() {
	suite.codec = NewEnvelopeCodec(DefaultMaxPayloadBytes)
}

func (suite *EnvelopeTestSuite) samples(n int) []models.DataPoint {
	records := make([]models.DataPoint, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.DataPoint{
			Timestamp:   time.Unix(1700000000+int64(i*900), 0).UTC(),
			Measurement: int64(1000 + i),
			Latitude:    407580,
			Longitude:   -739855,
			NodeID:      uint64(i + 1),
		})
	}
	return records
}

func (suite *EnvelopeTestSuite) TestRoundTrip() {
	records := suite.samples(5)

	data, err := suite.codec.Encode(records)
	suite.Require().NoError(err)
	suite.Equal(EnvelopeVersion, data[0])
	suite.Len(data, headerSize+5*recordSize)

	decoded, err := suite.codec.Decode(data)
	suite.Require().NoError(err)
	suite.Equal(records, decoded)
}

func (suite *EnvelopeTestSuite) TestEncodeEnforcesSizeCap() {
	tight := NewEnvelopeCodec(headerSize + 2*recordSize)
	suite.Equal(2, tight.MaxRecords())

	_, err := tight.Encode(suite.samples(2))
	suite.NoError(err)

	_, err = tight.Encode(suite.samples(3))
	suite.Require().Error(err)
	suite.Equal(griderrors.CodePayloadSize, griderrors.Code(err))
}

func (suite *EnvelopeTestSuite) TestTinyCapFitsNoRecords() {
	// A cap below one record's envelope must report zero capacity and refuse
	// to encode anything, never silently emit an empty batch.
	tiny := NewEnvelopeCodec(headerSize + recordSize - 1)
	suite.Equal(0, tiny.MaxRecords())
	suite.Greater(EnvelopeSize(1), headerSize+recordSize-1)

	_, err := tiny.Encode(suite.samples(1))
	suite.Require().Error(err)
	suite.Equal(griderrors.CodePayloadSize, griderrors.Code(err))
}

func (suite *EnvelopeTestSuite) TestDecodeRejectsCorruptChecksum() {
	data, err := suite.codec.Encode(suite.samples(2))
	suite.Require().NoError(err)

	data[len(data)-1] ^= 0xFF
	_, err = suite.codec.Decode(data)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "checksum")
}

func (suite *EnvelopeTestSuite) TestDecodeRejectsShortInput() {
	_, err := suite.codec.Decode([]byte{EnvelopeVersion, 0})
	suite.Error(err)
}

func (suite *EnvelopeTestSuite) TestDecodeRejectsUnknownVersion() {
	data, err := suite.codec.Encode(suite.samples(1))
	suite.Require().NoError(err)

	data[0] = 99
	_, err = suite.codec.Decode(data)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "version")
}

func (suite *EnvelopeTestSuite) TestDecodeRejectsTruncatedBody() {
	data, err := suite.codec.Encode(suite.samples(2))
	suite.Require().NoError(err)

	_, err = suite.codec.Decode(data[:len(data)-recordSize])
	suite.Require().Error(err)
}

func (suite *EnvelopeTestSuite) TestEncodeRejectsEmptyBatch() {
	_, err := suite.codec.Encode(nil)
	suite.Error(err)
}

func TestEnvelopeTestSuite(t *testing.T) {
	suite.Run(t, new(EnvelopeTestSuite))
}
