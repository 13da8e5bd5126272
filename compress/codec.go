package compress

import "fmt"

// Compressor produces the framed form of a container algorithm.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	// Compress compresses the input data and returns the framed result.
	Compress(data []byte) ([]byte, error)
}

// Decompressor inflates a complete container back to the raw bytes.
//
// Implementations validate the container framing and return an error when
// the data is corrupted or belongs to a different algorithm.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original bytes.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
//
// All built-in codecs are stateless values backed by pooled encoder and
// decoder instances, so they are safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec for the specified
// container kind.
//
// Parameters:
//   - kind: Container format (None, Gzip, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified kind
//   - error: Invalid container kind error
func CreateCodec(kind Kind, target string) (Codec, error) {
	switch kind {
	case KindNone:
		return NewNoOpCodec(), nil
	case KindGzip:
		return NewGzipCodec(), nil
	case KindZstd:
		return NewZstdCodec(), nil
	case KindS2:
		return NewS2Codec(), nil
	case KindLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("invalid %s container kind: %s", target, kind)
	}
}

var builtinCodecs = map[Kind]Codec{
	KindNone: NewNoOpCodec(),
	KindGzip: NewGzipCodec(),
	KindZstd: NewZstdCodec(),
	KindS2:   NewS2Codec(),
	KindLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves a built-in Codec for the specified container kind.
func GetCodec(kind Kind) (Codec, error) {
	if codec, ok := builtinCodecs[kind]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported container kind: %s", kind)
}
