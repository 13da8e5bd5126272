// Command uloginfo inspects ulog flight logs.
//
// By default it prints a summary of the file: header fields, catalogue
// entries, registered streams and decode statistics. Individual streams can
// be exported as CSV, or the whole decoded log as MessagePack for downstream
// tooling.
//
// Usage:
//
//	uloginfo flight.ulg
//	uloginfo -table gyro_0 -csv -o gyro.csv flight.ulg
//	uloginfo -msgpack -o flight.msgpack flight.ulg.gz
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/ulogkit/ulog"
	"github.com/ulogkit/ulog/schema"
)

func main() {
	var (
		tableName = flag.String("table", "", "stream to export, e.g. vehicle_status_0")
		asCSV     = flag.Bool("csv", false, "write the selected stream as CSV")
		asMsgpack = flag.Bool("msgpack", false, "write the whole decoded log as MessagePack")
		output    = flag.String("o", "", "output file (default stdout)")
		workers   = flag.Int("workers", 0, "extraction concurrency (0 = all CPUs)")
		verbose   = flag.Bool("v", false, "log decode diagnostics to stderr")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <logfile>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		logger = zap.Must(zap.NewDevelopment())
		defer func() { _ = logger.Sync() }()
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	decoded, err := ulog.Decode(data,
		ulog.WithFilename(filepath.Base(path)),
		ulog.WithConcurrency(*workers),
		ulog.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("decode %s: %v", path, err)
	}

	out := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("create %s: %v", *output, err)
		}
		defer f.Close()
		out = f
	}

	switch {
	case *tableName != "":
		table, ok := decoded.Table(*tableName)
		if !ok {
			log.Fatalf("no stream %q; available: %v", *tableName, decoded.Tables())
		}
		switch {
		case *asCSV:
			err = writeCSV(out, table)
		case *asMsgpack:
			err = msgpack.NewEncoder(out).Encode(streamExport(table))
		default:
			err = writePreview(out, table)
		}
	case *asMsgpack:
		err = writeMsgpack(out, decoded)
	default:
		err = writeSummary(out, decoded)
	}
	if err != nil {
		log.Fatalf("write output: %v", err)
	}
}

func writeSummary(w io.Writer, l *ulog.Log) error {
	fmt.Fprintf(w, "File: %s", l.Filename)
	if l.Container.String() != "none" {
		fmt.Fprintf(w, " (container: %s)", l.Container)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Version: %d, time ref: %s\n", l.Header.Version, l.TimeRef().Format("2006-01-02 15:04:05 MST"))

	if l.Flags != nil && l.Flags.DataAppended() {
		fmt.Fprintln(w, "Note: file carries appended data segments")
	}

	fmt.Fprintf(w, "\nInfo entries (%d):\n", len(l.Info))
	for _, key := range sortedKeys(l.Info) {
		fmt.Fprintf(w, "  %-24s %s\n", key, l.Info[key])
	}

	fmt.Fprintf(w, "\nParameters (%d):\n", len(l.Params))
	for _, key := range sortedKeys(l.Params) {
		fmt.Fprintf(w, "  %-24s %s\n", key, l.Params[key])
	}

	fmt.Fprintf(w, "\nStreams (%d):\n", len(l.Tables()))
	for _, name := range l.Tables() {
		table, _ := l.Table(name)
		fmt.Fprintf(w, "  %-32s %6d samples  %4d fields  layout %#016x\n",
			name, table.Len(), len(table.Fields()), table.Fingerprint)
	}

	if len(l.Perf) > 0 {
		fmt.Fprintf(w, "\nPerf counters (%d):\n", len(l.Perf))
		for _, name := range sortedKeys(l.Perf) {
			fmt.Fprintf(w, "  %s (%d lines)\n", name, len(l.Perf[name]))
		}
	}

	fmt.Fprintf(w, "\nLog messages: %d\n", len(l.Logs))

	s := l.Stats
	fmt.Fprintf(w, "Sync markers: %d (suspect: %d)\n", s.SyncMarkers, s.SuspectSyncs)
	if s.ResyncRuns > 0 {
		fmt.Fprintf(w, "Resynchronized %d times over %d bytes\n", s.ResyncRuns, s.ResyncBytes)
	}
	if s.TrailingTruncated {
		fmt.Fprintf(w, "Trailing truncation: %d sample fields lost\n", s.TruncatedValues)
	}
	if s.DuplicateInstances > 0 || s.DuplicateFlagBits > 0 {
		fmt.Fprintf(w, "Duplicates ignored: %d registrations, %d flag bitsets\n",
			s.DuplicateInstances, s.DuplicateFlagBits)
	}

	return nil
}

func writePreview(w io.Writer, t *ulog.Table) error {
	const maxRows = 10

	fmt.Fprintf(w, "%s: %d samples\n", t.Name, t.Len())
	fields := t.Fields()

	for _, name := range fields {
		col, _ := t.Column(name)
		fmt.Fprintf(w, "  %-32s %s\n", name, col.Kind)
	}

	rows := min(t.Len(), maxRows)
	for i := range rows {
		fmt.Fprintf(w, "[%d]", i)
		for _, name := range fields {
			col, _ := t.Column(name)
			fmt.Fprintf(w, "\t%g", col.Values[i])
		}
		fmt.Fprintln(w)
	}
	if t.Len() > maxRows {
		fmt.Fprintf(w, "... %d more\n", t.Len()-maxRows)
	}

	return nil
}

func writeCSV(w io.Writer, t *ulog.Table) error {
	cw := csv.NewWriter(w)
	fields := t.Fields()

	if err := cw.Write(fields); err != nil {
		return err
	}

	record := make([]string, len(fields))
	for i := range t.Len() {
		for j, name := range fields {
			col, _ := t.Column(name)
			record[j] = strconv.FormatFloat(col.Values[i], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// export is the MessagePack shape of a decoded log. Catalogue values are
// exported in their native width, text as strings.
type export struct {
	Version     uint8               `msgpack:"version"`
	TimestampUS uint64              `msgpack:"timestamp_us"`
	Filename    string              `msgpack:"filename"`
	Info        map[string]any      `msgpack:"info"`
	Params      map[string]any      `msgpack:"params"`
	Perf        map[string][]string `msgpack:"perf"`
	Logs        []exportLog         `msgpack:"logs"`
	Streams     []exportStream      `msgpack:"streams"`
	Stats       map[string]any      `msgpack:"stats"`
}

type exportLog struct {
	Level       uint8  `msgpack:"level"`
	TimestampUS uint64 `msgpack:"timestamp_us"`
	Text        string `msgpack:"text"`
}

type exportStream struct {
	Name        string               `msgpack:"name"`
	Format      string               `msgpack:"format"`
	MultiID     uint8                `msgpack:"multi_id"`
	MsgID       uint16               `msgpack:"msg_id"`
	Fingerprint uint64               `msgpack:"fingerprint"`
	Samples     int                  `msgpack:"samples"`
	Columns     map[string][]float64 `msgpack:"columns"`
}

func writeMsgpack(w io.Writer, l *ulog.Log) error {
	e := export{
		Version:     l.Header.Version,
		TimestampUS: l.Header.Timestamp,
		Filename:    l.Filename,
		Info:        make(map[string]any, len(l.Info)),
		Params:      make(map[string]any, len(l.Params)),
		Perf:        l.Perf,
		Logs:        make([]exportLog, len(l.Logs)),
		Streams:     make([]exportStream, 0, len(l.Tables())),
		Stats: map[string]any{
			"resync_runs":         l.Stats.ResyncRuns,
			"resync_bytes":        l.Stats.ResyncBytes,
			"trailing_truncated":  l.Stats.TrailingTruncated,
			"truncated_values":    l.Stats.TruncatedValues,
			"duplicate_instances": l.Stats.DuplicateInstances,
			"suspect_syncs":       l.Stats.SuspectSyncs,
		},
	}

	for key, val := range l.Info {
		e.Info[key] = exportValue(val)
	}
	for key, val := range l.Params {
		e.Params[key] = exportValue(val)
	}
	for i, entry := range l.Logs {
		e.Logs[i] = exportLog{Level: entry.Level, TimestampUS: entry.Timestamp, Text: entry.Text}
	}
	for _, name := range l.Tables() {
		table, _ := l.Table(name)
		e.Streams = append(e.Streams, streamExport(table))
	}

	return msgpack.NewEncoder(w).Encode(e)
}

func streamExport(t *ulog.Table) exportStream {
	stream := exportStream{
		Name:        t.Name,
		Format:      t.Format,
		MultiID:     t.MultiID,
		MsgID:       t.MsgID,
		Fingerprint: t.Fingerprint,
		Samples:     t.Len(),
		Columns:     make(map[string][]float64, len(t.Fields())),
	}
	for fname, col := range t.Columns() {
		stream.Columns[fname] = col.Values
	}

	return stream
}

func exportValue(v ulog.Value) any {
	switch v.Kind() {
	case schema.TypeChar:
		return v.Text()
	case schema.TypeInt32:
		return v.Int()
	case schema.TypeFloat:
		return v.Float()
	default:
		return v.Uint()
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return keys
}
