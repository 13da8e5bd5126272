package message

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ulogkit/ulog/errs"
)

// Multi is the payload of a continuable text message: a continuation flag, a
// key carrying the message name and the total text length, and the text
// itself. One logical message may arrive split across many Multi records;
// the walker reassembles them per name.
type Multi struct {
	// Continued marks this record as a continuation of the previous record
	// with the same name.
	Continued bool
	// Name is the message name, e.g. a performance counter name.
	Name string
	// Length is the text length declared inside the key. It is authoritative;
	// the record's payload size is not consulted for the text.
	Length int
	// Text is the message text, clamped to the bytes actually present.
	Text []byte
}

// ParseMulti parses a continuable text message payload. The key has the form
// "<type> <name>[<len>]"; a key whose length suffix sits on the type token
// instead, as in "char[47] <name>", is accepted as well.
func ParseMulti(payload []byte) (Multi, error) {
	if len(payload) < 2 {
		return Multi{}, errs.ErrShortPayload
	}
	keyLen := int(payload[1])
	if len(payload) < 2+keyLen {
		return Multi{}, fmt.Errorf("%w: key length %d exceeds payload", errs.ErrShortPayload, keyLen)
	}

	key := string(payload[2 : 2+keyLen])
	typeSpec, namePart, found := strings.Cut(key, " ")
	if !found || namePart == "" {
		return Multi{}, fmt.Errorf("%w: %q", errs.ErrBadMultiKey, key)
	}

	name, length, err := splitLengthSuffix(namePart)
	if err != nil {
		// Fall back to a length suffix on the type token.
		if _, typeLen, typeErr := splitLengthSuffix(typeSpec); typeErr == nil {
			name, length = namePart, typeLen
		} else {
			return Multi{}, fmt.Errorf("%w: %q", errs.ErrBadMultiKey, key)
		}
	}

	text := payload[2+keyLen:]
	if length < len(text) {
		text = text[:length]
	}

	return Multi{
		Continued: payload[0] != 0,
		Name:      name,
		Length:    length,
		Text:      text,
	}, nil
}

// splitLengthSuffix splits "name[47]" into ("name", 47).
func splitLengthSuffix(s string) (string, int, error) {
	idx := strings.LastIndexByte(s, '[')
	if idx < 0 || !strings.HasSuffix(s, "]") {
		return "", 0, errs.ErrBadMultiKey
	}
	n, err := strconv.Atoi(s[idx+1 : len(s)-1])
	if err != nil || n < 0 {
		return "", 0, errs.ErrBadMultiKey
	}

	return s[:idx], n, nil
}

// AppendTo appends the wire form of the record to buf, declaring the key in
// the "<type> <name>[<len>]" form with the length of Text.
func (m Multi) AppendTo(buf []byte) []byte {
	flag := byte(0)
	if m.Continued {
		flag = 1
	}
	key := "char " + m.Name + "[" + strconv.Itoa(len(m.Text)) + "]"

	buf = append(buf, flag, byte(len(key)))
	buf = append(buf, key...)

	return append(buf, m.Text...)
}
