package message

import (
	"bytes"
	"time"

	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/errs"
)

// FileHeader is the fixed 16-byte header at the start of every ulog file.
type FileHeader struct {
	// Version is the container format version byte following the magic.
	Version uint8
	// Timestamp is the UTC time reference in microseconds since the Unix
	// epoch; sample timestamps inside the file are relative to the same
	// clock.
	Timestamp uint64
}

// ParseFileHeader parses and validates the file header.
//
// Returns errs.ErrShortHeader when fewer than FileHeaderSize bytes are
// available and errs.ErrBadMagic when the leading bytes differ from Magic.
func ParseFileHeader(data []byte, engine endian.EndianEngine) (FileHeader, error) {
	if len(data) < FileHeaderSize {
		return FileHeader{}, errs.ErrShortHeader
	}
	if !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return FileHeader{}, errs.ErrBadMagic
	}

	return FileHeader{
		Version:   data[7],
		Timestamp: engine.Uint64(data[8:16]),
	}, nil
}

// AppendTo appends the 16-byte wire form of the header to buf.
func (h FileHeader) AppendTo(buf []byte, engine endian.EndianEngine) []byte {
	buf = append(buf, Magic[:]...)
	buf = append(buf, h.Version)

	return engine.AppendUint64(buf, h.Timestamp)
}

// Bytes serializes the header into a fresh byte slice.
func (h FileHeader) Bytes(engine endian.EndianEngine) []byte {
	return h.AppendTo(make([]byte, 0, FileHeaderSize), engine)
}

// TimeRef returns the UTC time reference as a time.Time.
func (h FileHeader) TimeRef() time.Time {
	return time.UnixMicro(int64(h.Timestamp)).UTC()
}
