package schema

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ulogkit/ulog/errs"
)

// Resolver collects format declarations during the stream walk and resolves
// them all at once into flat Format layouts.
//
// Resolution runs in three ordered stages per declaration:
//  1. array expansion: "b float[2]" becomes b_0, b_1 with the element type
//  2. embedded-type expansion to a fixed point: a field whose type names
//     another declaration is replaced by that declaration's array-expanded
//     field list, padding included, each inner field renamed
//     "<outer>__<inner>"
//  3. padding stripping: trailing padding-prefixed fields leave the public
//     field list but keep counting toward the record size
//
// The Resolver is not safe for concurrent use; it is owned by the
// single-threaded stream walk.
type Resolver struct {
	decls map[string]Declaration
	order []string
}

// NewResolver creates an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{decls: make(map[string]Declaration)}
}

// Add registers a declaration. A later declaration with the same name
// overwrites the earlier one but keeps its position in the resolution order.
func (r *Resolver) Add(decl Declaration) {
	if _, exists := r.decls[decl.Name]; !exists {
		r.order = append(r.order, decl.Name)
	}
	r.decls[decl.Name] = decl
}

// Len returns the number of distinct declarations collected.
func (r *Resolver) Len() int {
	return len(r.decls)
}

// Declared reports whether a format with the given name was collected.
func (r *Resolver) Declared(name string) bool {
	_, ok := r.decls[name]
	return ok
}

// ResolveError is a resolution failure bound to the declaration that caused
// it. Offset is the byte offset of the declaration's format message in the
// raw buffer.
type ResolveError struct {
	Format string
	Offset int64
	Err    error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("format %q: %v", e.Format, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Resolve expands every collected declaration into a Format.
//
// Any unresolvable field type yields errs.ErrUnknownFieldType and embedded
// declarations that reference each other in a cycle yield
// errs.ErrFormatCycle, both wrapped in a ResolveError naming the offending
// declaration. Resolution is all-or-nothing: one bad declaration fails the
// whole set.
func (r *Resolver) Resolve() (map[string]*Format, error) {
	// Stage 1 for every declaration. Embedded expansion below substitutes
	// these padded, array-expanded lists.
	stage1 := make(map[string][]FieldSpec, len(r.decls))
	for _, name := range r.order {
		decl := r.decls[name]
		expanded, err := expandArrays(decl)
		if err != nil {
			return nil, &ResolveError{Format: name, Offset: decl.SrcOffset, Err: err}
		}
		stage1[name] = expanded
	}

	if err := r.checkReferences(stage1); err != nil {
		return nil, err
	}

	formats := make(map[string]*Format, len(r.decls))
	for _, name := range r.order {
		flat, err := r.expandEmbedded(name, stage1)
		if err != nil {
			return nil, &ResolveError{Format: name, Offset: r.decls[name].SrcOffset, Err: err}
		}
		formats[name] = finalize(name, flat)
	}

	return formats, nil
}

// expandArrays applies stage 1 to one declaration: every field with an
// "[n]" suffix is replaced by n fields "name_0".."name_{n-1}" of the element
// type. Expansion order does not depend on scan direction, so the list is
// built left to right.
func expandArrays(decl Declaration) ([]FieldSpec, error) {
	out := make([]FieldSpec, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		base, n, isArray, err := splitArraySuffix(f.TypeSpec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		if !isArray {
			out = append(out, f)
			continue
		}
		for i := range n {
			out = append(out, FieldSpec{
				Name:     f.Name + "_" + strconv.Itoa(i),
				TypeSpec: base,
			})
		}
	}

	return out, nil
}

// splitArraySuffix splits "float[4]" into ("float", 4). The length must be a
// positive integer literal.
func splitArraySuffix(typeSpec string) (base string, n int, isArray bool, err error) {
	idx := strings.IndexByte(typeSpec, '[')
	if idx < 0 {
		return typeSpec, 1, false, nil
	}
	if !strings.HasSuffix(typeSpec, "]") {
		return "", 0, false, fmt.Errorf("%w: %q", errs.ErrBadArrayLength, typeSpec)
	}

	lit := typeSpec[idx+1 : len(typeSpec)-1]
	n, convErr := strconv.Atoi(lit)
	if convErr != nil || n <= 0 {
		return "", 0, false, fmt.Errorf("%w: %q", errs.ErrBadArrayLength, typeSpec)
	}

	return typeSpec[:idx], n, true, nil
}

// checkReferences validates that every non-primitive field type names a
// collected declaration and that the reference graph is acyclic. Checking up
// front guarantees that the fixed-point expansion terminates.
func (r *Resolver) checkReferences(stage1 map[string][]FieldSpec) error {
	const (
		white = iota // not visited
		grey         // on the current expansion path
		black        // fully verified
	)
	colors := make(map[string]int, len(r.decls))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		colors[name] = grey
		path = append(path, name)

		for _, f := range stage1[name] {
			if KindOf(f.TypeSpec).Valid() {
				continue
			}
			ref := f.TypeSpec
			if _, ok := r.decls[ref]; !ok {
				return &ResolveError{
					Format: name,
					Offset: r.decls[name].SrcOffset,
					Err:    fmt.Errorf("%w: %q in field %q", errs.ErrUnknownFieldType, ref, f.Name),
				}
			}
			switch colors[ref] {
			case grey:
				return &ResolveError{
					Format: name,
					Offset: r.decls[name].SrcOffset,
					Err:    fmt.Errorf("%w: %s -> %s", errs.ErrFormatCycle, strings.Join(path, " -> "), ref),
				}
			case white:
				if err := visit(ref, path); err != nil {
					return err
				}
			}
		}
		colors[name] = black

		return nil
	}

	for _, name := range r.order {
		if colors[name] == white {
			if err := visit(name, nil); err != nil {
				return err
			}
		}
	}

	return nil
}

// expandEmbedded applies stage 2 to one declaration: fields whose type names
// another declaration are substituted with that declaration's stage-1 list
// until every remaining type is primitive. The pass count is bounded by the
// nesting depth, which checkReferences already proved finite.
func (r *Resolver) expandEmbedded(name string, stage1 map[string][]FieldSpec) ([]FieldSpec, error) {
	fields := slices.Clone(stage1[name])
	for range len(r.decls) + 1 {
		changed := false
		out := make([]FieldSpec, 0, len(fields))
		for _, f := range fields {
			if KindOf(f.TypeSpec).Valid() {
				out = append(out, f)
				continue
			}
			for _, inner := range stage1[f.TypeSpec] {
				out = append(out, FieldSpec{
					Name:     f.Name + "__" + inner.Name,
					TypeSpec: inner.TypeSpec,
				})
			}
			changed = true
		}
		fields = out
		if !changed {
			return fields, nil
		}
	}

	return nil, errs.ErrFormatCycle
}

// finalize applies stage 3: assign byte offsets over the padded list, strip
// trailing padding fields from the public view and fingerprint the layout.
func finalize(name string, flat []FieldSpec) *Format {
	padded := make([]Field, len(flat))
	offset := 0
	for i, f := range flat {
		kind := KindOf(f.TypeSpec)
		padded[i] = Field{Name: f.Name, Kind: kind, Offset: offset, Width: kind.Width()}
		offset += kind.Width()
	}

	end := len(padded)
	for end > 0 && IsPaddingName(padded[end-1].Name) {
		end--
	}

	return &Format{
		Name:        name,
		Fields:      padded[:end:end],
		Size:        offset,
		Fingerprint: fingerprint(name, padded, offset),
	}
}
