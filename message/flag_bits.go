package message

import (
	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/errs"
)

// incompatDataAppendedBit flags that the file carries appended data segments
// whose start offsets are listed in AppendedOffsets.
const incompatDataAppendedBit = 0x01

// FlagBits is the payload of a flag bitset message: two 8-byte flag arrays
// and three offsets pointing at appended data segments. A well-formed file
// carries exactly one; the walker keeps the first and counts any duplicates.
type FlagBits struct {
	Compat          [8]uint8
	Incompat        [8]uint8
	AppendedOffsets [3]uint64
}

// ParseFlagBits parses a flag bitset payload.
func ParseFlagBits(payload []byte, engine endian.EndianEngine) (FlagBits, error) {
	if len(payload) < FlagBitsSize {
		return FlagBits{}, errs.ErrShortPayload
	}

	var fb FlagBits
	copy(fb.Compat[:], payload[0:8])
	copy(fb.Incompat[:], payload[8:16])
	for i := range fb.AppendedOffsets {
		fb.AppendedOffsets[i] = engine.Uint64(payload[16+i*8 : 24+i*8])
	}

	return fb, nil
}

// AppendTo appends the 40-byte wire form of the flag bitset to buf.
func (fb FlagBits) AppendTo(buf []byte, engine endian.EndianEngine) []byte {
	buf = append(buf, fb.Compat[:]...)
	buf = append(buf, fb.Incompat[:]...)
	for _, off := range fb.AppendedOffsets {
		buf = engine.AppendUint64(buf, off)
	}

	return buf
}

// DataAppended reports whether the producer appended data segments after the
// regular stream; the segment offsets are in AppendedOffsets.
func (fb FlagBits) DataAppended() bool {
	return fb.Incompat[0]&incompatDataAppendedBit != 0
}

// UnknownIncompat reports whether any incompatible-feature bit beyond the
// known set is raised. Decoding continues either way; callers may want to
// treat the result with suspicion.
func (fb FlagBits) UnknownIncompat() bool {
	if fb.Incompat[0]&^incompatDataAppendedBit != 0 {
		return true
	}
	for _, b := range fb.Incompat[1:] {
		if b != 0 {
			return true
		}
	}

	return false
}
