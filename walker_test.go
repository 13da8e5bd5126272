package ulog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ulogkit/ulog/message"
)

func TestPerfAccumulator(t *testing.T) {
	type frag struct {
		cont bool
		text string
	}

	tests := []struct {
		name  string
		frags []frag
		want  []string
	}{
		{
			name:  "single line",
			frags: []frag{{false, "foo"}},
			want:  []string{"foo"},
		},
		{
			name:  "continuation joins open line",
			frags: []frag{{false, "foo"}, {true, "bar\nbaz"}},
			want:  []string{"foobar", "baz"},
		},
		{
			name:  "newline closes line",
			frags: []frag{{false, "a\nb"}},
			want:  []string{"a", "b"},
		},
		{
			name:  "trailing newline adds no empty line",
			frags: []frag{{false, "line\n"}},
			want:  []string{"line"},
		},
		{
			name:  "consecutive newlines collapse",
			frags: []frag{{false, "a\n\nb"}},
			want:  []string{"a", "b"},
		},
		{
			name:  "orphan continuation starts fresh",
			frags: []frag{{true, "orphan"}},
			want:  []string{"orphan"},
		},
		{
			name:  "new fragment closes open line",
			frags: []frag{{false, "one"}, {false, "two"}},
			want:  []string{"one", "two"},
		},
		{
			name:  "leading newline in continuation",
			frags: []frag{{false, "one"}, {true, "\ntwo"}},
			want:  []string{"one", "two"},
		},
		{
			name:  "empty fragment yields empty line",
			frags: []frag{{false, ""}},
			want:  []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newPerfAccumulator()
			for _, f := range tt.frags {
				acc.add("perf", f.cont, f.text)
			}

			out := acc.finalize()
			require.Equal(t, tt.want, out["perf"])
		})
	}
}

func TestDecodePerfMessages(t *testing.T) {
	b := newLogBuilder(testTime)
	b.multi(false, "perf_top", "foo")
	b.multi(true, "perf_top", "bar\nbaz")
	b.multi(false, "perf_counter", "events: 12")

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	require.Equal(t, []string{"foobar", "baz"}, log.Perf["perf_top"])
	require.Equal(t, []string{"events: 12"}, log.Perf["perf_counter"])
	require.Len(t, log.Perf, 2)
}

func TestDecodeSuspectSync(t *testing.T) {
	b := newLogBuilder(testTime)
	b.sync()
	b.message(message.TagSync, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	require.Equal(t, 1, log.Stats.SyncMarkers)
	require.Equal(t, 1, log.Stats.SuspectSyncs)
}

func TestDecodeSkipsDropoutAndDefaultParam(t *testing.T) {
	b := newLogBuilder(testTime)
	b.message(message.TagDropout, []byte{0xE8, 0x03})
	b.message(message.TagDefaultParam, []byte{0x01, 0x0A, 'f', 'l', 'o', 'a', 't', ' ', 'X'})

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	require.Equal(t, uint64(1), log.Stats.TagCounts[message.TagDropout])
	require.Equal(t, uint64(1), log.Stats.TagCounts[message.TagDefaultParam])
}

func TestDecodeResyncLogging(t *testing.T) {
	b := newLogBuilder(testTime)
	b.raw(0x00, 0x00, 0x00, 0x00)
	b.sync()

	core, logs := observer.New(zapcore.WarnLevel)

	_, err := Decode(b.bytes(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	entries := logs.FilterMessage("resynchronized after unknown bytes").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(4), entries[0].ContextMap()["skipped"])
	require.Equal(t, int64(message.FileHeaderSize), entries[0].ContextMap()["offset"])
}

func TestDecodeTruncatedHeaderTail(t *testing.T) {
	b := newLogBuilder(testTime)
	b.sync()
	b.raw(0x08)

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	require.True(t, log.Stats.TrailingTruncated)
	require.Equal(t, 1, log.Stats.SyncMarkers)
}

func TestDecodeInfoLastWins(t *testing.T) {
	b := newLogBuilder(testTime)
	b.infoUint32("ver_hw", 1)
	b.infoUint32("ver_hw", 2)

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	require.Equal(t, uint64(2), log.Info["ver_hw"].Uint())
}

func TestDecodeFormatRedeclaration(t *testing.T) {
	b := newLogBuilder(testTime)
	b.format("gyro:uint64 timestamp;")
	b.format(gyroDecl)
	b.addLogged(0, 0, "gyro")
	b.data(0, gyroBody(b.engine, 1000, 1, 2, 1))

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	// The later declaration defines the layout.
	table, ok := log.Table("gyro_0")
	require.True(t, ok)
	require.Equal(t, []string{"timestamp", "rad_0", "rad_1", "ok"}, table.Fields())
	require.Equal(t, 1, table.Len())
}

func TestDecodeEmptyStream(t *testing.T) {
	b := newLogBuilder(testTime)

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	require.Empty(t, log.Tables())
	require.Empty(t, log.Info)
	require.Empty(t, log.Params)
	require.Empty(t, log.Logs)
	require.Nil(t, log.Flags)
	require.False(t, log.Stats.TrailingTruncated)
	require.Zero(t, log.Stats.ResyncRuns)
	require.Equal(t, time.UnixMicro(int64(testTime)).UTC(), log.TimeRef())
}

func TestDecodeTextLogOrder(t *testing.T) {
	b := newLogBuilder(testTime)
	b.textLog('4', 100, "warn one")
	b.textLog('6', 200, "info two")
	b.textLog('3', 300, "err three")

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	require.Len(t, log.Logs, 3)
	require.Equal(t, "warn one", log.Logs[0].Text)
	require.Equal(t, "info two", log.Logs[1].Text)
	require.Equal(t, "err three", log.Logs[2].Text)
	require.Equal(t, uint64(300), log.Logs[2].Timestamp)
}
