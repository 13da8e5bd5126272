package message

import (
	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/errs"
)

// TextLog is the payload of a leveled log message emitted by the producer.
type TextLog struct {
	// Level is the syslog-style severity byte, '0' (emergency) to '7' (debug).
	Level uint8
	// Timestamp is in microseconds, on the same clock as the file header's
	// time reference.
	Timestamp uint64
	// Text is the log line.
	Text string
}

// ParseTextLog parses a log message payload.
func ParseTextLog(payload []byte, engine endian.EndianEngine) (TextLog, error) {
	if len(payload) < 9 {
		return TextLog{}, errs.ErrShortPayload
	}

	return TextLog{
		Level:     payload[0],
		Timestamp: engine.Uint64(payload[1:9]),
		Text:      string(payload[9:]),
	}, nil
}

// AppendTo appends the wire form of the log message to buf.
func (l TextLog) AppendTo(buf []byte, engine endian.EndianEngine) []byte {
	buf = append(buf, l.Level)
	buf = engine.AppendUint64(buf, l.Timestamp)

	return append(buf, l.Text...)
}
