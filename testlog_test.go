package ulog

import (
	"fmt"
	"math"

	"github.com/ulogkit/ulog/endian"
	"github.com/ulogkit/ulog/message"
)

// logBuilder assembles wire-form log files for tests from the same AppendTo
// writers the message package exposes, so tests never hand-roll framing.
type logBuilder struct {
	engine endian.EndianEngine
	buf    []byte
}

func newLogBuilder(timestamp uint64) *logBuilder {
	b := &logBuilder{engine: endian.GetLittleEndianEngine()}
	b.buf = message.FileHeader{Version: 1, Timestamp: timestamp}.AppendTo(b.buf, b.engine)

	return b
}

// message frames one payload with its 3-byte header.
func (b *logBuilder) message(tag message.Tag, payload []byte) *logBuilder {
	b.buf = message.Header{Size: uint16(len(payload)), Type: tag}.AppendTo(b.buf, b.engine)
	b.buf = append(b.buf, payload...)

	return b
}

// raw appends unframed bytes, used to plant garbage and truncated tails.
func (b *logBuilder) raw(data ...byte) *logBuilder {
	b.buf = append(b.buf, data...)

	return b
}

func (b *logBuilder) flagBits(fb message.FlagBits) *logBuilder {
	return b.message(message.TagFlagBits, fb.AppendTo(nil, b.engine))
}

func (b *logBuilder) format(text string) *logBuilder {
	return b.message(message.TagFormat, []byte(text))
}

func (b *logBuilder) info(typeSpec, name string, raw []byte) *logBuilder {
	kv := message.KeyValue{TypeSpec: typeSpec, Name: name, Raw: raw}

	return b.message(message.TagInfo, kv.AppendTo(nil))
}

func (b *logBuilder) infoUint32(name string, v uint32) *logBuilder {
	return b.info("uint32", name, b.engine.AppendUint32(nil, v))
}

func (b *logBuilder) infoText(name, text string) *logBuilder {
	return b.info(fmt.Sprintf("char[%d]", len(text)), name, []byte(text))
}

func (b *logBuilder) param(typeSpec, name string, raw []byte) *logBuilder {
	kv := message.KeyValue{TypeSpec: typeSpec, Name: name, Raw: raw}

	return b.message(message.TagParam, kv.AppendTo(nil))
}

func (b *logBuilder) paramFloat(name string, v float32) *logBuilder {
	return b.param("float", name, b.engine.AppendUint32(nil, math.Float32bits(v)))
}

func (b *logBuilder) paramInt32(name string, v int32) *logBuilder {
	return b.param("int32", name, b.engine.AppendUint32(nil, uint32(v)))
}

func (b *logBuilder) addLogged(multiID uint8, msgID uint16, format string) *logBuilder {
	a := message.AddLogged{MultiID: multiID, MsgID: msgID, Format: format}

	return b.message(message.TagAddLogged, a.AppendTo(nil, b.engine))
}

func (b *logBuilder) data(msgID uint16, body []byte) *logBuilder {
	d := message.LoggedData{MsgID: msgID, Body: body}

	return b.message(message.TagData, d.AppendTo(nil, b.engine))
}

func (b *logBuilder) textLog(level uint8, timestamp uint64, text string) *logBuilder {
	l := message.TextLog{Level: level, Timestamp: timestamp, Text: text}

	return b.message(message.TagLog, l.AppendTo(nil, b.engine))
}

func (b *logBuilder) sync() *logBuilder {
	return b.message(message.TagSync, message.SyncMagic[:])
}

func (b *logBuilder) multi(continued bool, name, text string) *logBuilder {
	m := message.Multi{Continued: continued, Name: name, Text: []byte(text)}

	return b.message(message.TagMulti, m.AppendTo(nil))
}

// truncatedMessage frames a header claiming more payload than follows, for
// truncation scenarios.
func (b *logBuilder) truncatedMessage(tag message.Tag, claimed uint16, payload []byte) *logBuilder {
	b.buf = message.Header{Size: claimed, Type: tag}.AppendTo(b.buf, b.engine)
	b.buf = append(b.buf, payload...)

	return b
}

func (b *logBuilder) bytes() []byte {
	return b.buf
}

// len returns the current buffer length, i.e. the offset of whatever is
// appended next.
func (b *logBuilder) len() int64 {
	return int64(len(b.buf))
}

// gyroBody lays out one record body of the test format
// "gyro:uint64 timestamp;float[2] rad;uint8 ok;".
func gyroBody(engine endian.EndianEngine, ts uint64, rad0, rad1 float32, ok uint8) []byte {
	body := engine.AppendUint64(nil, ts)
	body = engine.AppendUint32(body, math.Float32bits(rad0))
	body = engine.AppendUint32(body, math.Float32bits(rad1))

	return append(body, ok)
}
