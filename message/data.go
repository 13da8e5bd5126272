package message

import (
	"bytes"

	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/errs"
)

// LoggedData is the payload of one sample record: the registered msg_id
// followed by the record body laid out per the stream's resolved format.
//
// The stream walker never parses these during pass 1; the extraction engine
// finds them again by anchor signature. The type exists for writers and for
// tooling that needs to frame individual samples.
type LoggedData struct {
	MsgID uint16
	Body  []byte
}

// ParseLoggedData splits a data payload into msg_id and body.
func ParseLoggedData(payload []byte, engine endian.EndianEngine) (LoggedData, error) {
	if len(payload) < 2 {
		return LoggedData{}, errs.ErrShortPayload
	}

	return LoggedData{
		MsgID: engine.Uint16(payload[0:2]),
		Body:  payload[2:],
	}, nil
}

// AppendTo appends the wire form of the sample payload to buf.
func (d LoggedData) AppendTo(buf []byte, engine endian.EndianEngine) []byte {
	buf = engine.AppendUint16(buf, d.MsgID)

	return append(buf, d.Body...)
}

// IsSyncMagic reports whether a sync message payload carries the expected
// magic value. A mismatch is not an error, only a hint that the stream was
// disturbed near the marker.
func IsSyncMagic(payload []byte) bool {
	return len(payload) == len(SyncMagic) && bytes.Equal(payload, SyncMagic[:])
}
