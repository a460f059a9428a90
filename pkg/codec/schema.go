package codec

import (
	"math/big"

	"github.com/opengrid-project/gridctl/pkg/griderrors"
)

// MaxSchemaBits is the widest word a schema may occupy. Packed words travel
// as a single uint256 on the wire, so schemas must fit in one EVM word.
const MaxSchemaBits = 256

// Field describes one packed field: how many bits it occupies and, for
// fractional quantities, the decimal scale applied before packing. Fields are
// unsigned; callers bias signed quantities before encoding.
type Field struct {
	Name  string
	Bits  uint
	Scale int64
}

// Schema is a declarative packed-word layout. The same schema drives both the
// encode and decode paths, so shift offsets and masks can never drift apart.
// Fields are packed in declaration order starting at bit 0.
type Schema struct {
	fields  []Field
	offsets []uint
	total   uint
}

func NewSchema(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, griderrors.NewValidationError("schema needs at least one field")
	}
	s := &Schema{
		fields:  fields,
		offsets: make([]uint, len(fields)),
	}
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, griderrors.NewValidationError("field %d has no name", i)
		}
		if seen[f.Name] {
			return nil, griderrors.NewValidationError("duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		if f.Bits == 0 || f.Bits > 64 {
			return nil, griderrors.NewValidationError("field %q width must be 1..64 bits, got %d", f.Name, f.Bits)
		}
		s.offsets[i] = s.total
		s.total += f.Bits
	}
	if s.total > MaxSchemaBits {
		return nil, griderrors.NewValidationError("schema occupies %d bits, limit is %d", s.total, MaxSchemaBits)
	}
	return s, nil
}

// MustSchema is for package-level schema definitions that are known valid.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Bits reports the total width of the packed word.
func (s *Schema) Bits() uint {
	return s.total
}

// Fields returns the schema layout in pack order.
func (s *Schema) Fields() []Field {
	return s.fields
}

func (s *Schema) maxValue(i int) uint64 {
	if s.fields[i].Bits == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << s.fields[i].Bits) - 1
}

// Encode packs the named values into a single wide integer by shifting each
// field to its offset and OR-ing the results. Every field must be present and
// must fit its declared width: silent truncation here corrupts records on the
// far side of the wire, so overflow is rejected before any bits are written.
func (s *Schema) Encode(values map[string]uint64) (*big.Int, error) {
	word := new(big.Int)
	for i, f := range s.fields {
		v, ok := values[f.Name]
		if !ok {
			return nil, griderrors.NewValidationError("missing value for field %q", f.Name)
		}
		if v > s.maxValue(i) {
			return nil, griderrors.NewValidationError(
				"value %d overflows field %q (%d bits)", v, f.Name, f.Bits)
		}
		part := new(big.Int).SetUint64(v)
		part.Lsh(part, s.offsets[i])
		word.Or(word, part)
	}
	return word, nil
}

// Decode reverses Encode by right-shifting and masking each field out of the
// word. Words wider than the schema are rejected: extra high bits mean the
// word was produced by a different layout.
func (s *Schema) Decode(word *big.Int) (map[string]uint64, error) {
	if word == nil || word.Sign() < 0 {
		return nil, griderrors.NewValidationError("packed word must be a non-negative integer")
	}
	if uint(word.BitLen()) > s.total {
		return nil, griderrors.NewValidationError(
			"packed word is %d bits wide, schema holds %d", word.BitLen(), s.total)
	}
	values := make(map[string]uint64, len(s.fields))
	for i, f := range s.fields {
		part := new(big.Int).Rsh(word, s.offsets[i])
		mask := new(big.Int).Lsh(big.NewInt(1), f.Bits)
		mask.Sub(mask, big.NewInt(1))
		part.And(part, mask)
		values[f.Name] = part.Uint64()
	}
	return values, nil
}
