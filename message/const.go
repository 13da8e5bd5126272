// Package message defines the wire-level records of the ulog container: the
// file header, the per-message header and the payload layouts of every known
// message type. Each record type comes with a Parse function reading the
// little-endian wire form and an AppendTo writer producing it, mirroring each
// other byte for byte.
package message

// Magic is the fixed 7-byte signature every ulog file starts with.
var Magic = [7]byte{0x55, 0x4C, 0x6F, 0x67, 0x01, 0x12, 0x35}

// SyncMagic is the fixed 8-byte payload of a well-formed sync message.
var SyncMagic = [8]byte{0x2F, 0x73, 0x13, 0x20, 0x25, 0x0C, 0xBB, 0x12}

const (
	// FileHeaderSize is the byte size of the file header: 7 magic bytes,
	// 1 version byte and the 8-byte UTC time reference. The message stream
	// starts immediately after.
	FileHeaderSize = 16

	// HeaderSize is the byte size of the per-message header.
	HeaderSize = 3

	// FlagBitsSize is the byte size of a flag bitset payload.
	FlagBitsSize = 40

	// AnchorSize is the byte size of a logged-data anchor signature:
	// the 3-byte message header plus the 2-byte msg_id prefix.
	AnchorSize = 5
)

// Tag identifies a message type in the stream.
type Tag uint8

const (
	TagFlagBits     Tag = 'B' // flag bitset, stored once
	TagInfo         Tag = 'I' // typed key/value info entry
	TagFormat       Tag = 'F' // textual format declaration
	TagParam        Tag = 'P' // typed key/value parameter
	TagMulti        Tag = 'M' // continuable text message keyed by name
	TagAddLogged    Tag = 'A' // registration of one logged data stream
	TagData         Tag = 'D' // one sample of a registered stream
	TagLog          Tag = 'L' // leveled, timestamped log text
	TagSync         Tag = 'S' // stream synchronization marker
	TagDropout      Tag = 'O' // logger dropout report, payload skipped
	TagDefaultParam Tag = 'Q' // default parameter value, payload skipped
)

func (t Tag) String() string {
	switch t {
	case TagFlagBits:
		return "flag-bits"
	case TagInfo:
		return "info"
	case TagFormat:
		return "format"
	case TagParam:
		return "param"
	case TagMulti:
		return "multi-info"
	case TagAddLogged:
		return "add-logged"
	case TagData:
		return "data"
	case TagLog:
		return "log"
	case TagSync:
		return "sync"
	case TagDropout:
		return "dropout"
	case TagDefaultParam:
		return "default-param"
	default:
		return "unknown"
	}
}

// Known reports whether t is one of the dispatchable message tags. The
// stream walker resynchronizes byte by byte on anything else.
func (t Tag) Known() bool {
	switch t {
	case TagFlagBits, TagInfo, TagFormat, TagParam, TagMulti,
		TagAddLogged, TagData, TagLog, TagSync, TagDropout, TagDefaultParam:
		return true
	default:
		return false
	}
}
