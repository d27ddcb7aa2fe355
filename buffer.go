package jce

import (
	"encoding/binary"
	"math"
	"sync"
)

// Buffer accumulates encoded JCE data during serialization. Supports
// only append operations, the way the teacher's Buffer does.
type Buffer struct {
	Bytes []byte
}

// Reset clears the buffer contents but preserves allocated memory.
func (b *Buffer) Reset() {
	b.Bytes = b.Bytes[:0]
}

var bufpool = sync.Pool{
	New: func() any { return &Buffer{} },
}

// NewBufferFromPool obtains a reset Buffer from the pool. Call
// ReturnToPool when finished.
func NewBufferFromPool() *Buffer {
	b := bufpool.Get().(*Buffer)
	b.Reset()
	return b
}

// ReturnToPool releases the buffer back to the pool. Using the buffer
// after this call results in undefined behavior.
func (b *Buffer) ReturnToPool() {
	bufpool.Put(b)
}

// PutHead writes a field head for tag/typ (spec §4.1).
func (b *Buffer) PutHead(typ WireType, tag uint8) {
	writeHead(b, typ, tag)
}

// PutByte writes a u8-shaped value: ZeroByte for 0, otherwise Byte
// plus its single payload byte (spec §4.2).
func (b *Buffer) PutByte(tag uint8, value uint8) {
	if value == 0 {
		b.PutHead(WireZeroByte, tag)
		return
	}
	b.PutHead(WireByte, tag)
	b.Bytes = append(b.Bytes, value)
}

// PutBool writes a bool as a Byte-shaped 1/0 (spec §4.2).
func (b *Buffer) PutBool(tag uint8, value bool) {
	if value {
		b.PutByte(tag, 1)
	} else {
		b.PutByte(tag, 0)
	}
}

// PutInt16 performs narrowing emission for a 16-bit signed value: the
// smallest wire type whose range contains the value is chosen.
func (b *Buffer) PutInt16(tag uint8, value int16) {
	b.putInt(tag, int64(value), WireInt16)
}

// PutInt32 narrows a 32-bit signed value down to Byte/ZeroByte/Int16/Int32.
func (b *Buffer) PutInt32(tag uint8, value int32) {
	b.putInt(tag, int64(value), WireInt32)
}

// PutInt64 narrows a 64-bit signed value down to Byte/ZeroByte/Int16/Int32/Int64.
func (b *Buffer) PutInt64(tag uint8, value int64) {
	b.putInt(tag, value, WireInt64)
}

// narrowIntKind implements the narrowing emission rule of spec §4.2: a
// non-negative value under 256 is Byte (0 is ZeroByte); otherwise the
// smallest of Int16/Int32/Int64 (bounded by maxWidth, the declared
// field width) that contains the value is chosen. Kept as a pure
// function so callers building a dynamic Value (spec §4.5) can tag it
// with the wire kind it would actually be emitted as.
func narrowIntKind(value int64, maxWidth WireType) WireType {
	switch {
	case value == 0:
		return WireZeroByte
	case value > 0 && value <= math.MaxUint8:
		return WireByte
	case maxWidth == WireInt16 || (value >= math.MinInt16 && value <= math.MaxInt16):
		return WireInt16
	case maxWidth == WireInt32 || (value >= math.MinInt32 && value <= math.MaxInt32):
		return WireInt32
	default:
		return WireInt64
	}
}

// putInt writes value using the narrowing emission rule (narrowIntKind).
func (b *Buffer) putInt(tag uint8, value int64, maxWidth WireType) {
	switch narrowIntKind(value, maxWidth) {
	case WireZeroByte:
		b.PutHead(WireZeroByte, tag)
	case WireByte:
		b.PutHead(WireByte, tag)
		b.Bytes = append(b.Bytes, byte(value))
	case WireInt16:
		b.PutHead(WireInt16, tag)
		b.Bytes = binary.BigEndian.AppendUint16(b.Bytes, uint16(value))
	case WireInt32:
		b.PutHead(WireInt32, tag)
		b.Bytes = binary.BigEndian.AppendUint32(b.Bytes, uint32(value))
	default:
		b.PutHead(WireInt64, tag)
		b.Bytes = binary.BigEndian.AppendUint64(b.Bytes, uint64(value))
	}
}

// PutFloat32 writes an IEEE-754 big-endian float32 (spec §4.2; no
// cross-width coercion).
func (b *Buffer) PutFloat32(tag uint8, value float32) {
	b.PutHead(WireFloat32, tag)
	b.Bytes = binary.BigEndian.AppendUint32(b.Bytes, math.Float32bits(value))
}

// PutFloat64 writes an IEEE-754 big-endian float64.
func (b *Buffer) PutFloat64(tag uint8, value float64) {
	b.PutHead(WireFloat64, tag)
	b.Bytes = binary.BigEndian.AppendUint64(b.Bytes, math.Float64bits(value))
}

// PutString selects ShortString (length < 256) or LongString
// otherwise (spec §4.2).
func (b *Buffer) PutString(tag uint8, value string) {
	if len(value) < 256 {
		b.PutHead(WireShortString, tag)
		b.Bytes = append(b.Bytes, byte(len(value)))
		b.Bytes = append(b.Bytes, value...)
		return
	}
	b.PutHead(WireLongString, tag)
	b.Bytes = binary.BigEndian.AppendUint32(b.Bytes, uint32(len(value)))
	b.Bytes = append(b.Bytes, value...)
}

// PutSimpleList writes a SimpleList head and its historical inner
// Byte(0) head (spec §4.3), followed by the length and raw bytes.
func (b *Buffer) PutSimpleList(tag uint8, value []byte) {
	b.PutHead(WireSimpleList, tag)
	b.PutHead(WireByte, 0)
	b.putLength(uint32(len(value)))
	b.Bytes = append(b.Bytes, value...)
}

// putLength writes a length value using the narrowing Int32 rule
// (container sizes and SimpleList lengths are carried as Int32 per
// spec §4.3, themselves narrowable).
func (b *Buffer) putLength(length uint32) {
	b.putInt(0, int64(length), WireInt32)
}
