// Package compress provides container codecs for compressed log files.
//
// Recorders frequently archive finished logs with a general-purpose
// compressor before shipping them off the vehicle. This package lets the
// decoder accept such containers directly: the compression format is
// sniffed from the leading magic bytes and the whole container is inflated
// in memory before the message stream is parsed.
//
// # Supported Containers
//
//   - Gzip: the common archival choice, detected by the 0x1F 0x8B prefix
//   - Zstd: best ratio for large logs, detected by the frame magic
//   - S2: snappy-compatible stream format, detected by the stream identifier
//   - LZ4: frame format with very fast decompression
//
// Raw log files pass through untouched. Only self-describing formats are
// supported; bare LZ4 or S2 blocks without framing cannot be detected and
// are treated as raw input.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Every codec produces and consumes the framed form of its algorithm, so a
// round trip through Compress is always recognizable by Detect. The
// Compress side exists for tests and for tooling that re-archives logs; the
// decoder itself only ever inflates.
//
// # Usage
//
// Callers normally go through Inflate, which combines detection and
// decompression:
//
//	raw, kind, err := compress.Inflate(fileBytes)
//	if err != nil {
//	    return err
//	}
//	if kind != compress.KindNone {
//	    log.Printf("inflated %s container", kind)
//	}
//
// Individual codecs are available through GetCodec for callers that already
// know the container format.
//
// # Memory Management
//
// All codecs pool their underlying encoder and decoder state, so repeated
// calls do not reallocate compression windows. Codecs are safe for
// concurrent use.
//
// # Zstd Backends
//
// Zstd has two interchangeable backends selected at build time: a pure Go
// implementation (github.com/klauspost/compress/zstd) used when cgo is
// disabled, and the libzstd binding (github.com/valyala/gozstd) used when
// cgo is available. Both read the same frame format.
package compress
