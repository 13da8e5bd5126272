package schema

import (
	"fmt"
	"strings"

	"github.com/ulogkit/ulog/errs"
)

// FieldSpec is one unresolved field of a format declaration: a name and the
// raw type spec text, which may still carry an array suffix or reference
// another declared format.
type FieldSpec struct {
	Name     string
	TypeSpec string
}

// Declaration is one format declaration captured from the message stream,
// before resolution. SrcOffset records where in the raw buffer the
// declaration was read, so resolution failures can point back at it.
type Declaration struct {
	Name      string
	Fields    []FieldSpec
	SrcOffset int64
}

// ParseDeclaration parses the payload text of a format message:
//
//	"<name>:<type1> <field1>;<type2> <field2>;..."
//
// Empty field chunks (from trailing or doubled semicolons) are skipped.
// Field names are stripped of stray leading spaces and underscores, so a
// producer-emitted "_padding0" is captured as "padding0".
func ParseDeclaration(text string) (Declaration, error) {
	name, rest, found := strings.Cut(text, ":")
	if !found || name == "" {
		return Declaration{}, fmt.Errorf("%w: %q", errs.ErrBadDeclaration, text)
	}

	decl := Declaration{Name: name}
	for chunk := range strings.SplitSeq(rest, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		typeSpec, fieldName, ok := strings.Cut(chunk, " ")
		if !ok {
			return Declaration{}, fmt.Errorf("%w: field %q in %q", errs.ErrBadDeclaration, chunk, name)
		}

		fieldName = strings.TrimLeft(fieldName, " _")
		if fieldName == "" {
			return Declaration{}, fmt.Errorf("%w: unnamed field in %q", errs.ErrBadDeclaration, name)
		}

		decl.Fields = append(decl.Fields, FieldSpec{Name: fieldName, TypeSpec: typeSpec})
	}

	return decl, nil
}
