// Package errs defines the sentinel errors shared across the ulog packages.
//
// All errors are plain sentinel values so callers can match them with
// errors.Is even when they arrive wrapped with additional context.
package errs

import "errors"

// File header errors.
var (
	// ErrShortHeader indicates the buffer is smaller than the fixed file header.
	ErrShortHeader = errors.New("data shorter than file header")
	// ErrBadMagic indicates the buffer does not start with the ulog magic bytes.
	ErrBadMagic = errors.New("invalid magic bytes")
)

// Message payload errors.
var (
	// ErrShortPayload indicates a message payload is too small for its declared layout.
	ErrShortPayload = errors.New("payload shorter than message layout")
	// ErrBadKey indicates an info or parameter key is missing its name part.
	ErrBadKey = errors.New("malformed key text")
	// ErrBadInfoType indicates an info message declared a value type the decoder does not support.
	ErrBadInfoType = errors.New("unsupported info value type")
	// ErrBadParamType indicates a parameter message declared a value type other than int32, uint32 or float.
	ErrBadParamType = errors.New("unsupported parameter value type")
	// ErrBadMultiKey indicates a continued message key is missing its length suffix.
	ErrBadMultiKey = errors.New("malformed continued message key")
)

// Schema resolution errors.
var (
	// ErrBadDeclaration indicates a format declaration is missing its name or separator.
	ErrBadDeclaration = errors.New("malformed format declaration")
	// ErrBadArrayLength indicates an array suffix is not a positive integer literal.
	ErrBadArrayLength = errors.New("invalid array length")
	// ErrUnknownFieldType indicates a field type is neither a primitive nor a declared format.
	ErrUnknownFieldType = errors.New("unknown field type")
	// ErrUnknownFormat indicates a logged instance references a format that was never declared.
	ErrUnknownFormat = errors.New("reference to undeclared format")
	// ErrFormatCycle indicates format declarations embed each other in a cycle.
	ErrFormatCycle = errors.New("format declarations form a cycle")
)
