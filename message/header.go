package message

import (
	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/errs"
)

// Header is the 3-byte header preceding every message payload.
type Header struct {
	// Size is the payload byte count; the payload follows immediately.
	Size uint16
	// Type is the message tag the payload is dispatched on.
	Type Tag
}

// ParseHeader parses a message header from the first HeaderSize bytes of data.
func ParseHeader(data []byte, engine endian.EndianEngine) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrShortPayload
	}

	return Header{
		Size: engine.Uint16(data[0:2]),
		Type: Tag(data[2]),
	}, nil
}

// AppendTo appends the 3-byte wire form of the header to buf.
func (h Header) AppendTo(buf []byte, engine endian.EndianEngine) []byte {
	buf = engine.AppendUint16(buf, h.Size)

	return append(buf, byte(h.Type))
}

// AnchorSignature builds the 5-byte signature that starts every on-disk
// sample of one logged data stream: the message header of a data record
// carrying recordSize payload bytes, followed by the little-endian msg_id.
// The extraction engine scans the raw buffer for this exact pattern.
func AnchorSignature(recordSize int, msgID uint16, engine endian.EndianEngine) []byte {
	sig := make([]byte, 0, AnchorSize)
	sig = Header{Size: uint16(recordSize), Type: TagData}.AppendTo(sig, engine)

	return engine.AppendUint16(sig, msgID)
}
