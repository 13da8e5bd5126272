package message

import (
	"strconv"

	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/errs"
)

// AddLogged is the payload of a stream registration message. It binds a
// msg_id, used by every subsequent data record of the stream, to a declared
// format and a multi instance index.
type AddLogged struct {
	// MultiID disambiguates repeated instances of the same format, e.g.
	// several sensors of one kind.
	MultiID uint8
	// MsgID is the stream id data records carry as their payload prefix.
	MsgID uint16
	// Format is the name of the declared format the stream samples.
	Format string
}

// ParseAddLogged parses a stream registration payload.
func ParseAddLogged(payload []byte, engine endian.EndianEngine) (AddLogged, error) {
	if len(payload) < 3 {
		return AddLogged{}, errs.ErrShortPayload
	}

	return AddLogged{
		MultiID: payload[0],
		MsgID:   engine.Uint16(payload[1:3]),
		Format:  string(payload[3:]),
	}, nil
}

// AppendTo appends the wire form of the registration to buf.
func (a AddLogged) AppendTo(buf []byte, engine endian.EndianEngine) []byte {
	buf = append(buf, a.MultiID)
	buf = engine.AppendUint16(buf, a.MsgID)

	return append(buf, a.Format...)
}

// Name synthesizes the unique output name of the registered stream.
func (a AddLogged) Name() string {
	return a.Format + "_" + strconv.Itoa(int(a.MultiID))
}
