package jce

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Reader provides sequential, cursor-based access to a borrowed byte
// buffer (spec §5: the codec borrows a cursor for the lifetime of one
// call; buffers are externally owned).
type Reader struct {
	bytes    []byte
	position int
}

// NewReader wraps b for reading. b is borrowed, not copied.
func NewReader(b []byte) *Reader {
	return &Reader{bytes: b}
}

// BytesLeft reports how many unread bytes remain.
func (r *Reader) BytesLeft() int { return len(r.bytes) - r.position }

// Remaining returns all unread bytes.
func (r *Reader) Remaining() []byte { return r.bytes[r.position:] }

// Position reports the current cursor offset, for error reporting.
func (r *Reader) Position() int { return r.position }

func (r *Reader) readByte() (byte, error) {
	if r.position >= len(r.bytes) {
		return 0, &TruncatedError{Want: 1, Have: 0}
	}
	b := r.bytes[r.position]
	r.position++
	return b, nil
}

func (r *Reader) readN(n int) ([]byte, error) {
	if n < 0 {
		return nil, &LengthInvalidError{Length: int64(n)}
	}
	if r.position+n > len(r.bytes) {
		return nil, &TruncatedError{Want: n, Have: r.BytesLeft()}
	}
	b := r.bytes[r.position : r.position+n]
	r.position += n
	return b, nil
}

// skipN advances the cursor by n bytes without returning them.
func (r *Reader) skipN(n int) error {
	_, err := r.readN(n)
	return err
}

// ReadHead reads the next field head, advancing past it (spec §4.1).
func (r *Reader) ReadHead() (Head, error) {
	return readHead(r)
}

// GetByte decodes a u8-shaped payload: ZeroByte yields 0, Byte reads
// its single payload byte (spec §4.2).
func (r *Reader) GetByte(h Head) (uint8, error) {
	switch h.Type {
	case WireZeroByte:
		return 0, nil
	case WireByte:
		b, err := r.readByte()
		if err != nil {
			return 0, wrapf(err, "tag %d: byte payload", h.Tag)
		}
		return b, nil
	default:
		return 0, &TypeMismatchError{Tag: h.Tag, Expected: WireByte, Actual: h.Type}
	}
}

// GetBool decodes a Bool-shaped payload: there is no separate Bool
// wire type, so it accepts Byte or ZeroByte and returns payload != 0
// (spec §4.2).
func (r *Reader) GetBool(h Head) (bool, error) {
	v, err := r.GetByte(h)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// GetInt16 widens any narrower-or-equal signed integer (or
// Byte/ZeroByte) into an int16 (spec §4.2).
func (r *Reader) GetInt16(h Head) (int16, error) {
	v, err := r.getWidenedInt(h, WireInt16)
	return int16(v), err
}

// GetInt32 widens any narrower-or-equal signed integer into an int32.
func (r *Reader) GetInt32(h Head) (int32, error) {
	v, err := r.getWidenedInt(h, WireInt32)
	return int32(v), err
}

// GetInt64 widens any narrower-or-equal signed integer into an int64.
func (r *Reader) GetInt64(h Head) (int64, error) {
	return r.getWidenedInt(h, WireInt64)
}

// widthRank orders the integer wire types from narrowest to widest so
// widening can be checked with a simple comparison.
func widthRank(w WireType) (int, bool) {
	switch w {
	case WireZeroByte, WireByte:
		return 0, true
	case WireInt16:
		return 1, true
	case WireInt32:
		return 2, true
	case WireInt64:
		return 3, true
	default:
		return 0, false
	}
}

// getWidenedInt implements spec §4.2/§9's widening promotion: a target
// of width maxWidth accepts any narrower-or-equal signed wire integer,
// plus Byte/ZeroByte (read as an unsigned 0..255 value, not sign
// extended as an int8 would be).
func (r *Reader) getWidenedInt(h Head, maxWidth WireType) (int64, error) {
	rank, ok := widthRank(h.Type)
	if !ok {
		return 0, &TypeMismatchError{Tag: h.Tag, Expected: maxWidth, Actual: h.Type}
	}
	maxRank, _ := widthRank(maxWidth)
	if rank > maxRank {
		return 0, &TypeMismatchError{Tag: h.Tag, Expected: maxWidth, Actual: h.Type}
	}

	switch h.Type {
	case WireZeroByte:
		return 0, nil
	case WireByte:
		b, err := r.readByte()
		if err != nil {
			return 0, wrapf(err, "tag %d: byte payload", h.Tag)
		}
		return int64(b), nil
	case WireInt16:
		b, err := r.readN(2)
		if err != nil {
			return 0, wrapf(err, "tag %d: int16 payload", h.Tag)
		}
		return int64(int16(binary.BigEndian.Uint16(b))), nil
	case WireInt32:
		b, err := r.readN(4)
		if err != nil {
			return 0, wrapf(err, "tag %d: int32 payload", h.Tag)
		}
		return int64(int32(binary.BigEndian.Uint32(b))), nil
	case WireInt64:
		b, err := r.readN(8)
		if err != nil {
			return 0, wrapf(err, "tag %d: int64 payload", h.Tag)
		}
		return int64(binary.BigEndian.Uint64(b)), nil
	default:
		return 0, &TypeMismatchError{Tag: h.Tag, Expected: maxWidth, Actual: h.Type}
	}
}

// GetFloat32 reads an IEEE-754 big-endian float32. No cross-width
// coercion is performed (spec §4.2).
func (r *Reader) GetFloat32(h Head) (float32, error) {
	if h.Type != WireFloat32 {
		return 0, &TypeMismatchError{Tag: h.Tag, Expected: WireFloat32, Actual: h.Type}
	}
	b, err := r.readN(4)
	if err != nil {
		return 0, wrapf(err, "tag %d: float32 payload", h.Tag)
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// GetFloat64 reads an IEEE-754 big-endian float64.
func (r *Reader) GetFloat64(h Head) (float64, error) {
	if h.Type != WireFloat64 {
		return 0, &TypeMismatchError{Tag: h.Tag, Expected: WireFloat64, Actual: h.Type}
	}
	b, err := r.readN(8)
	if err != nil {
		return 0, wrapf(err, "tag %d: float64 payload", h.Tag)
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// GetString decodes ShortString or LongString, validating UTF-8
// (spec §4.2).
func (r *Reader) GetString(h Head) (string, error) {
	var length int
	switch h.Type {
	case WireShortString:
		b, err := r.readByte()
		if err != nil {
			return "", wrapf(err, "tag %d: short string length", h.Tag)
		}
		length = int(b)
	case WireLongString:
		b, err := r.readN(4)
		if err != nil {
			return "", wrapf(err, "tag %d: long string length", h.Tag)
		}
		l := int32(binary.BigEndian.Uint32(b))
		if l < 0 {
			return "", &LengthInvalidError{Type: WireLongString, Length: int64(l)}
		}
		length = int(l)
	default:
		return "", &TypeMismatchError{Tag: h.Tag, Expected: WireShortString, Actual: h.Type}
	}

	b, err := r.readN(length)
	if err != nil {
		return "", wrapf(err, "tag %d: string payload", h.Tag)
	}
	if !utf8.Valid(b) {
		return "", &UTF8Error{Tag: h.Tag}
	}
	return string(b), nil
}

// getLength reads a container/SimpleList length carried as a
// narrowed Int32 (spec §4.3).
func (r *Reader) getLength(h Head) (int, error) {
	v, err := r.getWidenedInt(h, WireInt32)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, &LengthInvalidError{Type: h.Type, Length: v}
	}
	return int(v), nil
}
