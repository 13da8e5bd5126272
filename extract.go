package ulog

import (
	"bytes"
	"math"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/internal/pool"
	"github.com/ulogkit/ulog/internal/registry"
	"github.com/ulogkit/ulog/message"
	"github.com/ulogkit/ulog/schema"
)

// fieldDecoder reads one fixed-width field from a record body slice and
// widens it to float64.
type fieldDecoder func(b []byte) float64

// decoderFor builds the decode function for one field kind. When the engine
// matches the host byte order the multi-byte kinds read through direct
// reinterpretation instead of explicit byte assembly.
func decoderFor(kind schema.TypeKind, engine endian.EndianEngine) fieldDecoder {
	native := endian.CompareNativeEndian(engine)

	switch kind {
	case schema.TypeBool:
		return func(b []byte) float64 {
			if b[0] != 0 {
				return 1
			}
			return 0
		}
	case schema.TypeInt8:
		return func(b []byte) float64 { return float64(int8(b[0])) }
	case schema.TypeUint8:
		return func(b []byte) float64 { return float64(b[0]) }
	case schema.TypeInt16:
		if native {
			return func(b []byte) float64 { return float64(*(*int16)(unsafe.Pointer(&b[0]))) }
		}
		return func(b []byte) float64 { return float64(int16(engine.Uint16(b))) }
	case schema.TypeUint16:
		if native {
			return func(b []byte) float64 { return float64(*(*uint16)(unsafe.Pointer(&b[0]))) }
		}
		return func(b []byte) float64 { return float64(engine.Uint16(b)) }
	case schema.TypeInt32:
		if native {
			return func(b []byte) float64 { return float64(*(*int32)(unsafe.Pointer(&b[0]))) }
		}
		return func(b []byte) float64 { return float64(int32(engine.Uint32(b))) }
	case schema.TypeUint32:
		if native {
			return func(b []byte) float64 { return float64(*(*uint32)(unsafe.Pointer(&b[0]))) }
		}
		return func(b []byte) float64 { return float64(engine.Uint32(b)) }
	case schema.TypeInt64:
		if native {
			return func(b []byte) float64 { return float64(*(*int64)(unsafe.Pointer(&b[0]))) }
		}
		return func(b []byte) float64 { return float64(int64(engine.Uint64(b))) }
	case schema.TypeUint64:
		if native {
			return func(b []byte) float64 { return float64(*(*uint64)(unsafe.Pointer(&b[0]))) }
		}
		return func(b []byte) float64 { return float64(engine.Uint64(b)) }
	case schema.TypeFloat:
		if native {
			return func(b []byte) float64 { return float64(*(*float32)(unsafe.Pointer(&b[0]))) }
		}
		return func(b []byte) float64 { return float64(math.Float32frombits(engine.Uint32(b))) }
	case schema.TypeDouble:
		if native {
			return func(b []byte) float64 { return *(*float64)(unsafe.Pointer(&b[0])) }
		}
		return func(b []byte) float64 { return math.Float64frombits(engine.Uint64(b)) }
	default:
		return nil
	}
}

// countMatches counts occurrences of sig in data. The scan advances one byte
// past each match start, so overlapping occurrences all count.
func countMatches(data, sig []byte) int {
	count, idx := 0, 0
	for {
		j := bytes.Index(data[idx:], sig)
		if j < 0 {
			return count
		}
		count++
		idx += j + 1
	}
}

// fillMatches records the start offset of every occurrence of sig into
// offsets, which countMatches sized beforehand.
func fillMatches(data, sig []byte, offsets []int) {
	n, idx := 0, 0
	for n < len(offsets) {
		j := bytes.Index(data[idx:], sig)
		if j < 0 {
			break
		}
		offsets[n] = idx + j
		n++
		idx += j + 1
	}
}

// columnSpec is one extractable field of a stream: its position inside the
// record body and the decode function chosen once for all samples.
type columnSpec struct {
	name   string
	kind   schema.TypeKind
	offset int
	width  int
	dec    fieldDecoder
}

// extractInstance builds the table of one registered stream by scanning the
// raw buffer for the stream's anchor signature. It returns the table and the
// number of fields lost to trailing truncation.
func extractInstance(data []byte, engine endian.EndianEngine, entry registry.Entry, f *schema.Format, logger *zap.Logger) (*Table, int) {
	t := &Table{
		Name:        entry.Name,
		Format:      f.Name,
		MultiID:     entry.MultiID,
		MsgID:       entry.MsgID,
		Fingerprint: f.Fingerprint,
		columns:     make(map[string]*Column),
	}

	specs := make([]columnSpec, 0, len(f.Fields))
	for _, fld := range f.Fields {
		if fld.Kind == schema.TypeChar || schema.IsPaddingName(fld.Name) {
			continue
		}
		specs = append(specs, columnSpec{
			name:   fld.Name,
			kind:   fld.Kind,
			offset: fld.Offset,
			width:  fld.Width,
			dec:    decoderFor(fld.Kind, engine),
		})
	}

	t.fields = make([]string, len(specs))
	for i, spec := range specs {
		t.fields[i] = spec.name
	}

	recordSize := f.Size + 2
	if recordSize > math.MaxUint16 {
		// Unframeable: the message size field cannot carry it, so no sample
		// of this stream can exist on the wire.
		logger.Warn("record size exceeds the message size field",
			zap.String("stream", entry.Name),
			zap.Int("record_size", recordSize))
		for _, spec := range specs {
			t.columns[spec.name] = &Column{Kind: spec.kind}
		}
		return t, 0
	}

	sig := message.AnchorSignature(recordSize, entry.MsgID, engine)
	n := countMatches(data, sig)

	offsets, release := pool.GetIntSlice(n)
	defer release()
	fillMatches(data, sig, offsets)

	truncated := 0
	for _, spec := range specs {
		vals := make([]float64, n)
		for i, off := range offsets {
			p := off + message.AnchorSize + spec.offset
			if p+spec.width > len(data) {
				vals[i] = math.NaN()
				truncated++
				continue
			}
			vals[i] = spec.dec(data[p : p+spec.width])
		}
		t.columns[spec.name] = &Column{Kind: spec.kind, Values: vals}
	}
	t.rows = n

	if truncated > 0 {
		logger.Warn("final sample truncated",
			zap.String("stream", entry.Name),
			zap.Int("nan_fields", truncated))
	}

	return t, truncated
}

// extractTables runs the extraction pass: one table per registered stream,
// fanned out across at most workers goroutines. Streams are independent, so
// the only join is the final truncation tally.
func extractTables(data []byte, engine endian.EndianEngine, entries []registry.Entry, formats map[string]*schema.Format, workers int, logger *zap.Logger) ([]*Table, int) {
	tables := make([]*Table, len(entries))
	truncated := make([]int, len(entries))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, entry := range entries {
		g.Go(func() error {
			tables[i], truncated[i] = extractInstance(data, engine, entry, formats[entry.Format], logger)
			return nil
		})
	}
	// Workers report through their slice slots and never fail.
	_ = g.Wait()

	total := 0
	for _, c := range truncated {
		total += c
	}

	return tables, total
}
