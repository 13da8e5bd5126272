package ulog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ulogkit/ulog/compress"
	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/errs"
	"github.com/ulogkit/ulog/internal/options"
	"github.com/ulogkit/ulog/message"
	"github.com/ulogkit/ulog/schema"
)

// Decoder decodes one complete ulog file held in memory.
//
// Construction validates the container and the file header; Decode runs the
// two decode passes. A Decoder is cheap to create and bound to one input
// buffer, which it never modifies.
type Decoder struct {
	raw    []byte
	engine endian.EndianEngine
	cfg    DecoderConfig

	container compress.Kind
	header    message.FileHeader
}

// NewDecoder creates a decoder over data.
//
// Unless disabled via WithContainerDecompression, the input is sniffed for a
// compression container and inflated in memory first. The file header is
// validated eagerly, so a rejected magic surfaces here rather than in
// Decode. Input failures are *FatalError; option validation errors are
// returned as-is.
func NewDecoder(data []byte, opts ...Option) (*Decoder, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	d := &Decoder{engine: endian.GetLittleEndianEngine(), cfg: cfg}

	raw := data
	if cfg.inflate {
		inflated, kind, err := compress.Inflate(data)
		if err != nil {
			return nil, fatalf(0, "inflate container", err)
		}
		raw = inflated
		d.container = kind
	}

	hdr, err := message.ParseFileHeader(raw, d.engine)
	if err != nil {
		return nil, fatalf(0, "file header", err)
	}

	d.raw = raw
	d.header = hdr

	return d, nil
}

// Header returns the validated file header.
func (d *Decoder) Header() message.FileHeader {
	return d.header
}

// Container returns the compression container the input arrived in, or
// compress.KindNone for raw input.
func (d *Decoder) Container() compress.Kind {
	return d.container
}

// Decode runs both decode passes and assembles the result.
//
// Pass 1 walks the message stream once, collecting format declarations,
// stream registrations and catalogue entries while skipping sample bodies.
// Pass 2 resolves the declarations and extracts every registered stream into
// a columnar table, streams in parallel. Any error is a *FatalError and no
// partial Log is returned.
func (d *Decoder) Decode() (*Log, error) {
	w := newWalker(d.raw, d.engine, d.cfg.logger)
	if err := w.run(); err != nil {
		return nil, err
	}

	formats, err := w.resolver.Resolve()
	if err != nil {
		var re *schema.ResolveError
		if errors.As(err, &re) {
			return nil, fatalf(re.Offset, "format resolution", err)
		}
		return nil, fatalf(0, "format resolution", err)
	}

	entries := w.registry.All()
	for _, entry := range entries {
		if _, ok := formats[entry.Format]; !ok {
			return nil, fatalf(entry.Offset, "stream registration",
				fmt.Errorf("%w: %q", errs.ErrUnknownFormat, entry.Format))
		}
	}

	tables, truncated := extractTables(d.raw, d.engine, entries, formats, d.cfg.concurrency, d.cfg.logger)

	stats := w.stats
	stats.TruncatedValues = truncated
	stats.DuplicateInstances = w.registry.Duplicates()

	log := &Log{
		Header:    d.header,
		Filename:  d.cfg.filename,
		Container: d.container,
		Flags:     w.flags,
		Info:      w.info,
		Params:    w.params,
		Perf:      w.perf.finalize(),
		Logs:      w.logs,
		Stats:     stats,
		tables:    make(map[string]*Table, len(tables)),
		names:     make([]string, 0, len(tables)),
	}
	for _, t := range tables {
		log.tables[t.Name] = t
		log.names = append(log.names, t.Name)
	}
	slices.Sort(log.names)

	return log, nil
}
