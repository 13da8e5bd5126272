package schema

import (
	"strconv"
	"strings"

	"github.com/ulogkit/ulog/internal/hash"
)

// Field is one fully resolved field: a flattened name, a primitive kind and
// the byte range it occupies inside a record.
type Field struct {
	Name   string
	Kind   TypeKind
	Offset int
	Width  int
}

// Format is a fully resolved format: arrays expanded, embedded types
// flattened, byte offsets assigned.
//
// Fields holds the public field list with trailing padding stripped. Size is
// the exact byte size of the record body including any padding, so
// Size plus the 2-byte msg_id prefix equals the on-disk payload size of a
// logged-data message carrying this format. Fingerprint is a stable 64-bit
// identity of the padded layout, equal across logs that declare the same
// flattened layout.
type Format struct {
	Name        string
	Fields      []Field
	Size        int
	Fingerprint uint64
}

// FieldNames returns the public field names in declaration order.
func (f *Format) FieldNames() []string {
	names := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		names[i] = field.Name
	}

	return names
}

// Field returns the public field with the given name.
func (f *Format) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}

	return Field{}, false
}

// fingerprint renders the padded layout canonically and hashes it.
// The render includes every field, padding included, plus the total size, so
// two formats collide only if their byte layouts are identical.
func fingerprint(name string, padded []Field, size int) uint64 {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte(':')
	for _, f := range padded {
		sb.WriteString(f.Name)
		sb.WriteByte(' ')
		sb.WriteString(f.Kind.String())
		sb.WriteByte('@')
		sb.WriteString(strconv.Itoa(f.Offset))
		sb.WriteByte(';')
	}
	sb.WriteByte('#')
	sb.WriteString(strconv.Itoa(size))

	return hash.ID(sb.String())
}

// paddingPrefix is the reserved marker for producer-inserted alignment
// fields. The check applies to the final path segment so padding inherited
// from an embedded format ("outer__padding0") is recognized as well.
const paddingPrefix = "padding"

// IsPaddingName reports whether a resolved field name denotes a padding
// field.
func IsPaddingName(name string) bool {
	if idx := strings.LastIndex(name, "__"); idx >= 0 {
		name = name[idx+2:]
	}

	return strings.HasPrefix(name, paddingPrefix)
}
