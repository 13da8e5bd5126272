// Package ulog decodes self-describing binary flight logs into typed,
// columnar tables.
//
// A ulog file is a 16-byte header followed by a stream of tagged messages.
// The stream declares its own record schemas as text, registers data streams
// against them and then interleaves fixed-width sample records with metadata:
// typed info entries, parameters, leveled log text and synchronization
// markers. This package reads the whole file from memory and produces one
// table per registered stream plus the decoded metadata catalogues.
//
// # Core Features
//
//   - Single-pass stream walk with byte-level resynchronization after
//     corrupted regions
//   - Schema resolution with array expansion, embedded type flattening and
//     padding-aware record sizing
//   - Anchor-signature extraction: sample records are located by exact byte
//     pattern, so damaged regions cost data, not the decode
//   - Parallel per-stream extraction with a configurable worker bound
//   - Transparent container decompression (gzip, zstd, S2, LZ4)
//   - Stable 64-bit layout fingerprints (xxHash64) for schema comparison
//     across logs
//
// # Basic Usage
//
// Decoding a log file:
//
//	data, _ := os.ReadFile("flight.ulg")
//	log, err := ulog.Decode(data, ulog.WithFilename("flight.ulg"))
//	if err != nil {
//	    return err
//	}
//
//	for _, name := range log.Tables() {
//	    table, _ := log.Table(name)
//	    fmt.Printf("%s: %d samples, %d fields\n", name, table.Len(), len(table.Fields()))
//	}
//
// Accessing one column:
//
//	table, _ := log.Table("vehicle_status_0")
//	col, _ := table.Column("timestamp")
//	for i, v := range col.Values {
//	    fmt.Printf("%d: %.0f\n", i, v)
//	}
//
// Every sample value is widened to float64; a NaN marks a field lost to a
// truncated final record. Character and padding fields carry no columns.
//
// # Error Handling
//
// Failures split into two classes. Structural damage the decoder can step
// over, such as unknown bytes between messages or a truncated final record,
// is repaired, counted in Stats and reported through the optional logger.
// Damage that poisons interpretation, such as a bad magic, an unresolvable
// schema or a malformed known message, aborts the decode with a *FatalError
// carrying the byte offset; no partial result is returned.
//
// # Architecture
//
// The packages underneath mirror the decode stages:
//
//   - message: wire-level records, their Parse and AppendTo forms
//   - schema: declaration parsing and resolution into flat layouts
//   - compress: container detection and inflation
//   - endian: byte order engines shared by all wire readers
//   - errs: the sentinel error catalogue
//
// Most callers need only this package; the subpackages serve tooling that
// works below the whole-file level.
package ulog

import (
	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/message"
)

// Decode decodes a complete ulog file held in memory.
//
// It is shorthand for NewDecoder followed by Decode. See Decoder for the
// two-pass decode semantics and Option for the available settings.
//
// Example:
//
//	log, err := ulog.Decode(data,
//	    ulog.WithLogger(logger),
//	    ulog.WithConcurrency(4),
//	)
func Decode(data []byte, opts ...Option) (*Log, error) {
	d, err := NewDecoder(data, opts...)
	if err != nil {
		return nil, err
	}

	return d.Decode()
}

// Peek validates and returns the file header without decoding the stream.
//
// It reads the input as-is: a compressed container fails the magic check, so
// callers that accept containers should use NewDecoder, which inflates
// first.
func Peek(data []byte) (message.FileHeader, error) {
	return message.ParseFileHeader(data, endian.GetLittleEndianEngine())
}
