package ulog

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/errs"
	"github.com/ulogkit/ulog/internal/pool"
	"github.com/ulogkit/ulog/internal/registry"
	"github.com/ulogkit/ulog/message"
	"github.com/ulogkit/ulog/schema"
)

// walker performs the first decode pass: a single sequential scan over the
// message stream that collects declarations, registrations and catalogue
// entries. Sample payloads are only counted here; the extraction engine
// revisits them by anchor signature.
type walker struct {
	data   []byte
	engine endian.EndianEngine
	logger *zap.Logger

	resolver *schema.Resolver
	registry *registry.Instances
	flags    *message.FlagBits
	info     map[string]Value
	params   map[string]Value
	logs     []message.TextLog
	perf     *perfAccumulator
	stats    Stats

	// resyncStart is the offset of the current unknown-byte run, -1 outside
	// of one.
	resyncStart int64
}

func newWalker(data []byte, engine endian.EndianEngine, logger *zap.Logger) *walker {
	return &walker{
		data:        data,
		engine:      engine,
		logger:      logger,
		resolver:    schema.NewResolver(),
		registry:    registry.NewInstances(),
		info:        make(map[string]Value),
		params:      make(map[string]Value),
		perf:        newPerfAccumulator(),
		stats:       Stats{TagCounts: make(map[message.Tag]uint64)},
		resyncStart: -1,
	}
}

// run walks the stream from the end of the file header to the end of the
// buffer. The returned error, if any, is a *FatalError.
func (w *walker) run() error {
	offset := int64(message.FileHeaderSize)
	size := int64(len(w.data))

	for offset < size {
		if size-offset < message.HeaderSize {
			w.stats.TrailingTruncated = true
			w.logger.Warn("buffer ends inside a message header",
				zap.Int64("offset", offset),
				zap.Int64("remaining", size-offset))
			break
		}

		hdr, _ := message.ParseHeader(w.data[offset:], w.engine)
		if !hdr.Type.Known() {
			if w.resyncStart < 0 {
				w.resyncStart = offset
			}
			offset++
			continue
		}
		w.endResync(offset)

		end := offset + message.HeaderSize + int64(hdr.Size)
		if end > size {
			w.stats.TrailingTruncated = true
			w.logger.Warn("buffer ends inside a message payload",
				zap.Int64("offset", offset),
				zap.String("tag", hdr.Type.String()),
				zap.Uint16("size", hdr.Size),
				zap.Int64("remaining", size-offset))
			break
		}

		w.stats.TagCounts[hdr.Type]++
		if err := w.dispatch(offset, hdr.Type, w.data[offset+message.HeaderSize:end]); err != nil {
			return err
		}
		offset = end
	}
	w.endResync(offset)

	return nil
}

// endResync closes an open unknown-byte run ending at offset.
func (w *walker) endResync(offset int64) {
	if w.resyncStart < 0 {
		return
	}
	skipped := offset - w.resyncStart
	w.stats.ResyncRuns++
	w.stats.ResyncBytes += skipped
	w.logger.Warn("resynchronized after unknown bytes",
		zap.Int64("offset", w.resyncStart),
		zap.Int64("skipped", skipped))
	w.resyncStart = -1
}

func (w *walker) dispatch(offset int64, tag message.Tag, payload []byte) error {
	switch tag {
	case message.TagFlagBits:
		return w.handleFlagBits(offset, payload)
	case message.TagInfo:
		return w.handleInfo(offset, payload)
	case message.TagFormat:
		return w.handleFormat(offset, payload)
	case message.TagParam:
		return w.handleParam(offset, payload)
	case message.TagMulti:
		return w.handleMulti(offset, payload)
	case message.TagAddLogged:
		return w.handleAddLogged(offset, payload)
	case message.TagLog:
		return w.handleTextLog(offset, payload)
	case message.TagSync:
		w.handleSync(offset, payload)
	case message.TagData, message.TagDropout, message.TagDefaultParam:
		// Sample bodies are consumed by the extraction pass; dropout reports
		// and default parameters carry nothing the result needs.
	}

	return nil
}

func (w *walker) handleFlagBits(offset int64, payload []byte) error {
	fb, err := message.ParseFlagBits(payload, w.engine)
	if err != nil {
		return fatalf(offset, "flag bits message", err)
	}

	if w.flags != nil {
		w.stats.DuplicateFlagBits++
		w.logger.Warn("duplicate flag bits message", zap.Int64("offset", offset))
		return nil
	}

	w.flags = &fb
	if fb.UnknownIncompat() {
		w.logger.Warn("unknown incompatible flag bits set",
			zap.Int64("offset", offset),
			zap.Uint8s("incompat", fb.Incompat[:]))
	}

	return nil
}

func (w *walker) handleInfo(offset int64, payload []byte) error {
	kv, err := message.ParseKeyValue(payload)
	if err != nil {
		return fatalf(offset, "info message", err)
	}

	val, err := decodeInfoValue(kv, w.engine)
	if err != nil {
		return fatalf(offset, "info message", err)
	}
	w.info[kv.Name] = val

	return nil
}

func (w *walker) handleParam(offset int64, payload []byte) error {
	kv, err := message.ParseKeyValue(payload)
	if err != nil {
		return fatalf(offset, "parameter message", err)
	}

	val, err := decodeParamValue(kv, w.engine)
	if err != nil {
		return fatalf(offset, "parameter message", err)
	}
	w.params[kv.Name] = val

	return nil
}

func (w *walker) handleFormat(offset int64, payload []byte) error {
	decl, err := schema.ParseDeclaration(string(payload))
	if err != nil {
		return fatalf(offset, "format declaration", err)
	}

	decl.SrcOffset = offset
	w.resolver.Add(decl)

	return nil
}

func (w *walker) handleMulti(offset int64, payload []byte) error {
	m, err := message.ParseMulti(payload)
	if err != nil {
		return fatalf(offset, "multi message", err)
	}

	w.perf.add(m.Name, m.Continued, string(m.Text))

	return nil
}

func (w *walker) handleAddLogged(offset int64, payload []byte) error {
	a, err := message.ParseAddLogged(payload, w.engine)
	if err != nil {
		return fatalf(offset, "stream registration", err)
	}

	entry := registry.Entry{
		MsgID:   a.MsgID,
		MultiID: a.MultiID,
		Format:  a.Format,
		Name:    a.Name(),
		Offset:  offset,
	}
	if !w.registry.Register(entry) {
		w.logger.Warn("duplicate stream registration",
			zap.Int64("offset", offset),
			zap.Uint16("msg_id", a.MsgID),
			zap.String("name", entry.Name))
	}

	return nil
}

func (w *walker) handleTextLog(offset int64, payload []byte) error {
	l, err := message.ParseTextLog(payload, w.engine)
	if err != nil {
		return fatalf(offset, "log message", err)
	}

	w.logs = append(w.logs, l)

	return nil
}

func (w *walker) handleSync(offset int64, payload []byte) {
	if message.IsSyncMagic(payload) {
		w.stats.SyncMarkers++
		return
	}

	w.stats.SuspectSyncs++
	w.logger.Warn("sync message with unexpected payload", zap.Int64("offset", offset))
}

// decodeInfoValue reinterprets an info value per its declared type. Any type
// outside the closed info set is fatal.
func decodeInfoValue(kv message.KeyValue, engine endian.EndianEngine) (Value, error) {
	switch {
	case kv.TypeSpec == "uint32":
		if len(kv.Raw) < 4 {
			return Value{}, fmt.Errorf("%w: uint32 value of %q", errs.ErrShortPayload, kv.Name)
		}
		return uintValue(schema.TypeUint32, uint64(engine.Uint32(kv.Raw))), nil
	case kv.TypeSpec == "uint64":
		if len(kv.Raw) < 8 {
			return Value{}, fmt.Errorf("%w: uint64 value of %q", errs.ErrShortPayload, kv.Name)
		}
		return uintValue(schema.TypeUint64, engine.Uint64(kv.Raw)), nil
	case kv.TypeSpec == "int32":
		if len(kv.Raw) < 4 {
			return Value{}, fmt.Errorf("%w: int32 value of %q", errs.ErrShortPayload, kv.Name)
		}
		return intValue(int32(engine.Uint32(kv.Raw))), nil
	case kv.TypeSpec == "float":
		if len(kv.Raw) < 4 {
			return Value{}, fmt.Errorf("%w: float value of %q", errs.ErrShortPayload, kv.Name)
		}
		return floatValue(math.Float32frombits(engine.Uint32(kv.Raw))), nil
	case strings.Contains(kv.TypeSpec, "char"):
		return textValue(string(kv.Raw)), nil
	default:
		return Value{}, fmt.Errorf("%w: %q for key %q", errs.ErrBadInfoType, kv.TypeSpec, kv.Name)
	}
}

// decodeParamValue reinterprets a parameter value. Parameters allow a
// narrower type set than info entries: no uint64, no text.
func decodeParamValue(kv message.KeyValue, engine endian.EndianEngine) (Value, error) {
	switch kv.TypeSpec {
	case "uint32":
		if len(kv.Raw) < 4 {
			return Value{}, fmt.Errorf("%w: uint32 value of %q", errs.ErrShortPayload, kv.Name)
		}
		return uintValue(schema.TypeUint32, uint64(engine.Uint32(kv.Raw))), nil
	case "int32":
		if len(kv.Raw) < 4 {
			return Value{}, fmt.Errorf("%w: int32 value of %q", errs.ErrShortPayload, kv.Name)
		}
		return intValue(int32(engine.Uint32(kv.Raw))), nil
	case "float":
		if len(kv.Raw) < 4 {
			return Value{}, fmt.Errorf("%w: float value of %q", errs.ErrShortPayload, kv.Name)
		}
		return floatValue(math.Float32frombits(engine.Uint32(kv.Raw))), nil
	default:
		return Value{}, fmt.Errorf("%w: %q for key %q", errs.ErrBadParamType, kv.TypeSpec, kv.Name)
	}
}

// perfEntry accumulates the lines of one continuable text message name.
type perfEntry struct {
	lines []string
	cur   *pool.ByteBuffer
	open  bool
}

func (e *perfEntry) start(chunk string) {
	if e.cur == nil {
		e.cur = pool.GetTextBuffer()
	}
	_, _ = e.cur.WriteString(chunk)
	e.open = true
}

func (e *perfEntry) appendChunk(chunk string) {
	_, _ = e.cur.WriteString(chunk)
}

func (e *perfEntry) flush() {
	if !e.open {
		return
	}
	e.lines = append(e.lines, e.cur.String())
	e.cur.Reset()
	e.open = false
}

// perfAccumulator reassembles continuable text messages into per-name line
// lists. A record with the continuation flag extends the currently open
// line; line breaks inside the text close lines as they appear.
type perfAccumulator struct {
	entries map[string]*perfEntry
}

func newPerfAccumulator() *perfAccumulator {
	return &perfAccumulator{entries: make(map[string]*perfEntry)}
}

func (p *perfAccumulator) add(name string, continued bool, text string) {
	entry, ok := p.entries[name]
	if !ok {
		entry = &perfEntry{}
		p.entries[name] = entry
	}

	chunks := strings.Split(text, "\n")
	last := len(chunks) - 1
	for i, chunk := range chunks {
		switch {
		case i == 0 && continued && entry.open:
			entry.appendChunk(chunk)
		case chunk == "" && !(i == 0 && !continued):
			// A break with nothing on this side contributes no line.
		default:
			entry.flush()
			entry.start(chunk)
		}
		if i < last {
			entry.flush()
		}
	}
}

// finalize closes all open lines, returns the pooled buffers and produces
// the per-name line lists.
func (p *perfAccumulator) finalize() map[string][]string {
	out := make(map[string][]string, len(p.entries))
	for name, entry := range p.entries {
		entry.flush()
		if entry.cur != nil {
			pool.PutTextBuffer(entry.cur)
			entry.cur = nil
		}
		out[name] = entry.lines
	}

	return out
}
