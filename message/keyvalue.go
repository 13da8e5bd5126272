package message

import (
	"fmt"
	"strings"

	"github.com/ulogkit/ulog/errs"
)

// KeyValue is the payload of an info or parameter message: a 1-byte key
// length, the key text "<type> <name>" and the remaining bytes as the raw
// value, to be reinterpreted per the declared type.
type KeyValue struct {
	// TypeSpec is the declared value type, e.g. "uint32" or "char[10]".
	TypeSpec string
	// Name is the entry name the catalogues key on.
	Name string
	// Raw is the undecoded value bytes.
	Raw []byte
}

// ParseKeyValue parses an info or parameter payload.
func ParseKeyValue(payload []byte) (KeyValue, error) {
	if len(payload) < 1 {
		return KeyValue{}, errs.ErrShortPayload
	}
	keyLen := int(payload[0])
	if len(payload) < 1+keyLen {
		return KeyValue{}, fmt.Errorf("%w: key length %d exceeds payload", errs.ErrShortPayload, keyLen)
	}

	key := string(payload[1 : 1+keyLen])
	typeSpec, name, found := strings.Cut(key, " ")
	if !found || name == "" {
		return KeyValue{}, fmt.Errorf("%w: %q", errs.ErrBadKey, key)
	}

	return KeyValue{
		TypeSpec: typeSpec,
		Name:     name,
		Raw:      payload[1+keyLen:],
	}, nil
}

// AppendTo appends the wire form of the key/value entry to buf.
func (kv KeyValue) AppendTo(buf []byte) []byte {
	key := kv.TypeSpec + " " + kv.Name
	buf = append(buf, byte(len(key)))
	buf = append(buf, key...)

	return append(buf, kv.Raw...)
}
