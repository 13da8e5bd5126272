package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulogkit/ulog/errs"
)

func TestParseKeyValue(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := KeyValue{TypeSpec: "uint32", Name: "ver_hw", Raw: []byte{1, 0, 0, 0}}
		out, err := ParseKeyValue(in.AppendTo(nil))
		require.NoError(t, err)
		require.Equal(t, in, out)
	})

	t.Run("name may contain spaces", func(t *testing.T) {
		// Only the first token is the type; the rest is the name verbatim.
		payload := KeyValue{TypeSpec: "char[9]", Name: "sys name", Raw: []byte("px4_fmu-v5")}.AppendTo(nil)
		out, err := ParseKeyValue(payload)
		require.NoError(t, err)
		assert.Equal(t, "char[9]", out.TypeSpec)
		assert.Equal(t, "sys name", out.Name)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := ParseKeyValue(nil)
		require.ErrorIs(t, err, errs.ErrShortPayload)
	})

	t.Run("key length exceeds payload", func(t *testing.T) {
		_, err := ParseKeyValue([]byte{200, 'u'})
		require.ErrorIs(t, err, errs.ErrShortPayload)
	})

	t.Run("key without name", func(t *testing.T) {
		payload := []byte{6, 'u', 'i', 'n', 't', '3', '2'}
		_, err := ParseKeyValue(payload)
		require.ErrorIs(t, err, errs.ErrBadKey)
	})
}

func TestParseMulti(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := Multi{Continued: true, Name: "perf_top", Text: []byte("load: 0.42")}
		out, err := ParseMulti(in.AppendTo(nil))
		require.NoError(t, err)
		assert.True(t, out.Continued)
		assert.Equal(t, "perf_top", out.Name)
		assert.Equal(t, len(in.Text), out.Length)
		assert.Equal(t, in.Text, out.Text)
	})

	t.Run("length suffix on name token", func(t *testing.T) {
		// Key "x perf[3]" followed by "foo".
		payload := []byte{0, 9}
		payload = append(payload, "x perf[3]"...)
		payload = append(payload, "foo"...)

		out, err := ParseMulti(payload)
		require.NoError(t, err)
		assert.Equal(t, "perf", out.Name)
		assert.Equal(t, 3, out.Length)
		assert.Equal(t, []byte("foo"), out.Text)
	})

	t.Run("length suffix on type token", func(t *testing.T) {
		payload := []byte{1, 12}
		payload = append(payload, "char[3] perf"...)
		payload = append(payload, "foo"...)

		out, err := ParseMulti(payload)
		require.NoError(t, err)
		assert.True(t, out.Continued)
		assert.Equal(t, "perf", out.Name)
		assert.Equal(t, 3, out.Length)
		assert.Equal(t, []byte("foo"), out.Text)
	})

	t.Run("declared length clamps to available bytes", func(t *testing.T) {
		payload := []byte{0, 9}
		payload = append(payload, "x perf[8]"...)
		payload = append(payload, "foo"...) // only 3 of 8 declared bytes present

		out, err := ParseMulti(payload)
		require.NoError(t, err)
		assert.Equal(t, 8, out.Length)
		assert.Equal(t, []byte("foo"), out.Text)
	})

	t.Run("no length suffix anywhere", func(t *testing.T) {
		payload := []byte{0, 6}
		payload = append(payload, "x perf"...)

		_, err := ParseMulti(payload)
		require.ErrorIs(t, err, errs.ErrBadMultiKey)
	})

	t.Run("short payload", func(t *testing.T) {
		_, err := ParseMulti([]byte{1})
		require.ErrorIs(t, err, errs.ErrShortPayload)

		_, err = ParseMulti([]byte{0, 50, 'x'})
		require.ErrorIs(t, err, errs.ErrShortPayload)
	})
}

func TestParseAddLogged(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := AddLogged{MultiID: 1, MsgID: 6, Format: "Ex"}
		out, err := ParseAddLogged(in.AppendTo(nil, testEngine), testEngine)
		require.NoError(t, err)
		require.Equal(t, in, out)
		require.Equal(t, "Ex_1", out.Name())
	})

	t.Run("wire layout", func(t *testing.T) {
		buf := AddLogged{MultiID: 2, MsgID: 0x0304, Format: "f"}.AppendTo(nil, testEngine)
		require.Equal(t, []byte{2, 0x04, 0x03, 'f'}, buf)
	})

	t.Run("short payload", func(t *testing.T) {
		_, err := ParseAddLogged([]byte{0, 5}, testEngine)
		require.ErrorIs(t, err, errs.ErrShortPayload)
	})
}

func TestParseTextLog(t *testing.T) {
	in := TextLog{Level: '4', Timestamp: 987654, Text: "gps signal lost"}
	out, err := ParseTextLog(in.AppendTo(nil, testEngine), testEngine)
	require.NoError(t, err)
	require.Equal(t, in, out)

	_, err = ParseTextLog(make([]byte, 8), testEngine)
	require.ErrorIs(t, err, errs.ErrShortPayload)
}

func TestParseLoggedData(t *testing.T) {
	in := LoggedData{MsgID: 7, Body: []byte{1, 2, 3, 4}}
	out, err := ParseLoggedData(in.AppendTo(nil, testEngine), testEngine)
	require.NoError(t, err)
	require.Equal(t, in, out)

	_, err = ParseLoggedData([]byte{7}, testEngine)
	require.ErrorIs(t, err, errs.ErrShortPayload)
}

func TestIsSyncMagic(t *testing.T) {
	require.True(t, IsSyncMagic(SyncMagic[:]))

	bad := append([]byte(nil), SyncMagic[:]...)
	bad[3] ^= 0xFF
	require.False(t, IsSyncMagic(bad))
	require.False(t, IsSyncMagic(SyncMagic[:7]))
	require.False(t, IsSyncMagic(nil))
}
