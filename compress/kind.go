package compress

// Kind identifies a container compression format.
type Kind uint8

const (
	// KindNone marks input without a recognized container prefix.
	KindNone Kind = iota
	// KindGzip is the gzip member format (RFC 1952).
	KindGzip
	// KindZstd is the Zstandard frame format (RFC 8878).
	KindZstd
	// KindS2 is the S2 stream format, including legacy snappy streams.
	KindS2
	// KindLZ4 is the LZ4 frame format.
	KindLZ4
)

// String returns the human-readable name of the compression kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindGzip:
		return "gzip"
	case KindZstd:
		return "zstd"
	case KindS2:
		return "s2"
	case KindLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}
