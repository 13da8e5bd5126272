// Package schema resolves the textual format declarations embedded in a ulog
// stream into flat, fixed-width field layouts.
//
// A declaration names a record type and lists its fields as "<type> <name>"
// pairs. A field type is either a primitive, a primitive with an array suffix
// such as "float[4]", or the name of another declared format (an embedded
// type). The Resolver expands arrays and embedded types into a flat layout,
// assigns byte offsets, strips trailing padding fields from the public view
// and computes the exact on-disk record size that the extraction engine
// anchors on.
package schema

// TypeKind identifies one primitive field type of the ulog format language.
//
// The set is closed: decode dispatch happens once per resolved field through
// a function table keyed by TypeKind, never per sample through type name
// strings.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota // TypeInvalid marks a name that is not a primitive.
	TypeBool
	TypeChar
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat
	TypeDouble
)

// kindWidths maps each TypeKind to its byte width on the wire.
var kindWidths = [...]int{
	TypeInvalid: 0,
	TypeBool:    1,
	TypeChar:    1,
	TypeInt8:    1,
	TypeUint8:   1,
	TypeInt16:   2,
	TypeUint16:  2,
	TypeInt32:   4,
	TypeUint32:  4,
	TypeInt64:   8,
	TypeUint64:  8,
	TypeFloat:   4,
	TypeDouble:  8,
}

// KindOf maps a primitive type name to its TypeKind.
//
// Both the bare spellings ("uint8", "float") and the C stdint spellings that
// producers commonly emit ("uint8_t", "int64_t") are accepted. An unknown
// name yields TypeInvalid, which resolution treats as a reference to another
// declared format.
func KindOf(name string) TypeKind {
	switch name {
	case "bool":
		return TypeBool
	case "char":
		return TypeChar
	case "int8", "int8_t":
		return TypeInt8
	case "uint8", "uint8_t":
		return TypeUint8
	case "int16", "int16_t":
		return TypeInt16
	case "uint16", "uint16_t":
		return TypeUint16
	case "int32", "int32_t":
		return TypeInt32
	case "uint32", "uint32_t":
		return TypeUint32
	case "int64", "int64_t":
		return TypeInt64
	case "uint64", "uint64_t":
		return TypeUint64
	case "float":
		return TypeFloat
	case "double":
		return TypeDouble
	default:
		return TypeInvalid
	}
}

// Valid reports whether k names a concrete primitive type.
func (k TypeKind) Valid() bool {
	return k > TypeInvalid && k <= TypeDouble
}

// Width returns the byte width of the primitive type, or 0 for TypeInvalid.
func (k TypeKind) Width() int {
	if int(k) >= len(kindWidths) {
		return 0
	}

	return kindWidths[k]
}

func (k TypeKind) String() string {
	switch k {
	case TypeBool:
		return "bool"
	case TypeChar:
		return "char"
	case TypeInt8:
		return "int8"
	case TypeUint8:
		return "uint8"
	case TypeInt16:
		return "int16"
	case TypeUint16:
		return "uint16"
	case TypeInt32:
		return "int32"
	case TypeUint32:
		return "uint32"
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	default:
		return "invalid"
	}
}
