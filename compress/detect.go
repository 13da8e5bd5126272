package compress

import (
	"bytes"
	"fmt"
)

// Container magics. S2 and snappy both use a framed stream identifier
// chunk; the S2 reader understands either, so both map to KindS2.
var (
	gzipMagic      = []byte{0x1F, 0x8B}
	zstdMagic      = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4FrameMagic  = []byte{0x04, 0x22, 0x4D, 0x18}
	s2StreamMagic  = []byte{0xFF, 0x06, 0x00, 0x00, 'S', '2', 's', 'T', 'w', 'O'}
	snappyStreamID = []byte{0xFF, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
)

// Detect sniffs the container compression format from the leading bytes.
//
// It returns KindNone when no known container magic matches, which covers
// both raw log files and formats without self-describing framing.
func Detect(data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return KindGzip
	case bytes.HasPrefix(data, zstdMagic):
		return KindZstd
	case bytes.HasPrefix(data, lz4FrameMagic):
		return KindLZ4
	case bytes.HasPrefix(data, s2StreamMagic), bytes.HasPrefix(data, snappyStreamID):
		return KindS2
	default:
		return KindNone
	}
}

// Inflate detects the container format of data and decompresses it.
//
// Unrecognized input is returned unchanged with KindNone. A detected
// container that fails to decompress yields an error; the decoder treats
// that as fatal since the message stream inside is unreachable.
func Inflate(data []byte) ([]byte, Kind, error) {
	kind := Detect(data)
	if kind == KindNone {
		return data, KindNone, nil
	}

	codec, err := GetCodec(kind)
	if err != nil {
		return nil, kind, err
	}

	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, kind, fmt.Errorf("inflate %s container: %w", kind, err)
	}

	return raw, kind, nil
}
