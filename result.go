package ulog

import (
	"iter"
	"strconv"
	"time"

	"github.com/ulogkit/ulog/compress"
	"github.com/ulogkit/ulog/message"
	"github.com/ulogkit/ulog/schema"
)

// Value is one typed entry from the info or parameter catalogue. The kind
// discriminates which accessor holds the payload; String renders any kind.
type Value struct {
	kind schema.TypeKind
	i    int64
	u    uint64
	f    float64
	s    string
}

func intValue(v int32) Value {
	return Value{kind: schema.TypeInt32, i: int64(v)}
}

func uintValue(kind schema.TypeKind, v uint64) Value {
	return Value{kind: kind, u: v}
}

func floatValue(v float32) Value {
	return Value{kind: schema.TypeFloat, f: float64(v)}
}

func textValue(s string) Value {
	return Value{kind: schema.TypeChar, s: s}
}

// Kind returns the declared type of the entry.
func (v Value) Kind() schema.TypeKind {
	return v.kind
}

// Int returns the payload of an int32 entry.
func (v Value) Int() int64 {
	return v.i
}

// Uint returns the payload of a uint32 or uint64 entry.
func (v Value) Uint() uint64 {
	return v.u
}

// Float returns the payload of a float entry.
func (v Value) Float() float64 {
	return v.f
}

// Text returns the payload of a char entry.
func (v Value) Text() string {
	return v.s
}

// String renders the entry for display regardless of kind.
func (v Value) String() string {
	switch v.kind {
	case schema.TypeChar:
		return v.s
	case schema.TypeInt32:
		return strconv.FormatInt(v.i, 10)
	case schema.TypeUint32, schema.TypeUint64:
		return strconv.FormatUint(v.u, 10)
	case schema.TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	default:
		return ""
	}
}

// Stats aggregates the recoverable anomalies observed while decoding. A clean
// file decodes with every counter at zero.
type Stats struct {
	// ResyncRuns is the number of contiguous unknown-byte runs skipped while
	// resynchronizing the stream walk.
	ResyncRuns int
	// ResyncBytes is the total byte count across all resync runs.
	ResyncBytes int64
	// TrailingTruncated reports that the buffer ended inside a message.
	TrailingTruncated bool
	// TruncatedValues counts sample fields replaced by NaN because the final
	// record of a stream was cut short.
	TruncatedValues int
	// DuplicateInstances counts ignored duplicate stream registrations.
	DuplicateInstances int
	// DuplicateFlagBits counts flag bitset messages beyond the first.
	DuplicateFlagBits int
	// SyncMarkers counts well-formed synchronization messages.
	SyncMarkers int
	// SuspectSyncs counts synchronization messages whose payload differed
	// from the expected magic.
	SuspectSyncs int
	// TagCounts counts every dispatched message by tag.
	TagCounts map[message.Tag]uint64
}

// Column is one extracted field of a table: every sample's value widened to
// float64, in stream order. A NaN marks a field lost to trailing truncation.
type Column struct {
	Kind   schema.TypeKind
	Values []float64
}

// Table holds the extracted samples of one registered stream in columnar
// form. Character and padding fields carry no sample data and have no
// columns.
type Table struct {
	// Name is the unique output name, "<format>_<multi_id>".
	Name string
	// Format is the declared format name the stream samples.
	Format string
	// MultiID is the instance index from the stream registration.
	MultiID uint8
	// MsgID is the stream id sample records carry on the wire.
	MsgID uint16
	// Fingerprint is the stable 64-bit identity of the stream's layout.
	Fingerprint uint64

	rows    int
	fields  []string
	columns map[string]*Column
}

// Len returns the number of samples extracted for the stream.
func (t *Table) Len() int {
	return t.rows
}

// Fields returns the column names in declaration order, so the first field
// of a conventional stream is its timestamp.
func (t *Table) Fields() []string {
	return t.fields
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.columns[name]
	return c, ok
}

// Columns iterates the columns in declaration order.
func (t *Table) Columns() iter.Seq2[string, *Column] {
	return func(yield func(string, *Column) bool) {
		for _, name := range t.fields {
			if !yield(name, t.columns[name]) {
				return
			}
		}
	}
}

// Log is the fully decoded form of one ulog file.
type Log struct {
	// Header is the validated file header.
	Header message.FileHeader
	// Filename is the display name attached via WithFilename, if any.
	Filename string
	// Container is the compression container the input arrived in, or
	// compress.KindNone for raw input.
	Container compress.Kind
	// Flags is the flag bitset message, nil when the file carries none.
	Flags *message.FlagBits
	// Info holds the typed information entries, last write wins per key.
	Info map[string]Value
	// Params holds the typed parameter entries, last write wins per key.
	Params map[string]Value
	// Perf holds the reassembled continuable text messages as lines per name.
	Perf map[string][]string
	// Logs holds the producer's leveled log messages in stream order.
	Logs []message.TextLog
	// Stats aggregates the anomalies observed during the decode.
	Stats Stats

	tables map[string]*Table
	names  []string
}

// TimeRef returns the file's UTC time reference.
func (l *Log) TimeRef() time.Time {
	return l.Header.TimeRef()
}

// Tables returns the stream output names in ascending order.
func (l *Log) Tables() []string {
	return l.names
}

// Table returns the named stream table.
func (l *Log) Table(name string) (*Table, bool) {
	t, ok := l.tables[name]
	return t, ok
}
