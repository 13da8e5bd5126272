package compress

// ZstdCodec provides Zstandard container compression and decompression.
//
// Zstd gives the best ratio of the supported containers and is the usual
// choice for long-term log archival. Two backends implement the codec: a
// pure Go implementation used when cgo is disabled and a libzstd binding
// used when cgo is available. Both produce standard frames, so containers
// written by one backend inflate with the other.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
