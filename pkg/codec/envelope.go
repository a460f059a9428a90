package codec

import (
	"encoding/binary"
	"hash/crc32"
	"math/big"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
	"github.com/opengrid-project/gridctl/pkg/models"
)

// Envelope wire layout:
//
//	[1B version][4B crc32 of body][2B record count][count * recordSize packed words]
//
// The CRC covers everything after the header. Records are fixed-width packed
// data points, so the destination decoder never has to parse variable-length
// structure out of untrusted bytes.
const (
	EnvelopeVersion = byte(1)

	versionSize = 1
	crcSize     = 4
	countSize   = 2
	headerSize  = versionSize + crcSize + countSize

	// recordSize is DataPointSchema.Bits() rounded up to whole bytes.
	recordSize = 18

	// DefaultMaxPayloadBytes is the default envelope size cap. The safe limit
	// is an empirically tuned property of the destination chain's message
	// executor, not a protocol constant, so it is configurable everywhere.
	DefaultMaxPayloadBytes = 2048
)

// EnvelopeCodec frames batches of packed records for cross-chain transfer,
// enforcing the configured payload size cap before anything reaches the wire.
type EnvelopeCodec struct {
	maxPayloadBytes int
}

func NewEnvelopeCodec(maxPayloadBytes int) *EnvelopeCodec {
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = DefaultMaxPayloadBytes
	}
	return &EnvelopeCodec{maxPayloadBytes: maxPayloadBytes}
}

// MaxRecords reports how many records fit a single envelope under the size cap.
func (c *EnvelopeCodec) MaxRecords() int {
	return (c.maxPayloadBytes - headerSize) / recordSize
}

// EnvelopeSize reports the wire size of an envelope carrying n records.
func EnvelopeSize(n int) int {
	return headerSize + n*recordSize
}

// Encode packs the records into one wire envelope. Oversized batches are
// rejected up front: undersized chunking is the caller's job and a too-large
// envelope would fail destination-side execution with no error visible here.
func (c *EnvelopeCodec) Encode(records []models.DataPoint) ([]byte, error) {
	if len(records) == 0 {
		return nil, griderrors.NewValidationError("envelope needs at least one record")
	}
	if len(records) > 0xFFFF {
		return nil, griderrors.NewValidationError("record count %d overflows envelope header", len(records))
	}
	size := headerSize + len(records)*recordSize
	if size > c.maxPayloadBytes {
		return nil, griderrors.NewPayloadSizeError(size, c.maxPayloadBytes)
	}

	buf := make([]byte, size)
	buf[0] = EnvelopeVersion
	binary.BigEndian.PutUint16(buf[versionSize+crcSize:headerSize], uint16(len(records)))

	for i, dp := range records {
		word, err := PackDataPoint(dp)
		if err != nil {
			return nil, err
		}
		word.FillBytes(buf[headerSize+i*recordSize : headerSize+(i+1)*recordSize])
	}

	crc := crc32.ChecksumIEEE(buf[versionSize+crcSize:])
	binary.BigEndian.PutUint32(buf[versionSize:versionSize+crcSize], crc)
	return buf, nil
}

// Decode unpacks a wire envelope back into records. Malformed input returns
// an error rather than panicking: the receive path must stay callable on
// arbitrary bytes, because a revert there silently wedges the relay channel.
func (c *EnvelopeCodec) Decode(data []byte) ([]models.DataPoint, error) {
	if len(data) < headerSize {
		return nil, griderrors.NewValidationError("envelope is %d bytes, shorter than the %d byte header", len(data), headerSize)
	}
	if data[0] != EnvelopeVersion {
		return nil, griderrors.NewValidationError("unsupported envelope version %d", data[0])
	}
	wantCRC := binary.BigEndian.Uint32(data[versionSize : versionSize+crcSize])
	if got := crc32.ChecksumIEEE(data[versionSize+crcSize:]); got != wantCRC {
		return nil, griderrors.NewValidationError("envelope checksum mismatch")
	}
	count := int(binary.BigEndian.Uint16(data[versionSize+crcSize : headerSize]))
	if len(data) != headerSize+count*recordSize {
		return nil, griderrors.NewValidationError(
			"envelope declares %d records but carries %d body bytes", count, len(data)-headerSize)
	}

	records := make([]models.DataPoint, 0, count)
	for i := 0; i < count; i++ {
		word := new(big.Int).SetBytes(data[headerSize+i*recordSize : headerSize+(i+1)*recordSize])
		dp, err := UnpackDataPoint(word)
		if err != nil {
			return nil, err
		}
		records = append(records, dp)
	}
	return records, nil
}
