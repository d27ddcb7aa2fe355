package jce

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutIntNarrowsToZeroByte(t *testing.T) {
	b := &Buffer{}
	b.PutInt32(5, 0)
	r := NewReader(b.Bytes)
	h, err := r.ReadHead()
	require.NoError(t, err)
	assert.Equal(t, WireZeroByte, h.Type)
	assert.Len(t, b.Bytes, 1)
}

func TestPutIntNarrowsToByteForNonNegative(t *testing.T) {
	b := &Buffer{}
	b.PutInt32(0, 200)
	r := NewReader(b.Bytes)
	h, err := r.ReadHead()
	require.NoError(t, err)
	assert.Equal(t, WireByte, h.Type)
	v, err := r.GetInt32(h)
	require.NoError(t, err)
	assert.EqualValues(t, 200, v)
}

func TestPutIntNegativeSkipsByte(t *testing.T) {
	// spec §4.2: Byte always carries a non-negative value; a small
	// negative value is emitted as Int16, not bit-reinterpreted into Byte.
	b := &Buffer{}
	b.PutInt32(0, -5)
	r := NewReader(b.Bytes)
	h, err := r.ReadHead()
	require.NoError(t, err)
	assert.Equal(t, WireInt16, h.Type)
	v, err := r.GetInt32(h)
	require.NoError(t, err)
	assert.EqualValues(t, -5, v)
}

func TestIntegerNarrowingBoundaries(t *testing.T) {
	cases := []struct {
		name string
		val  int64
		kind WireType
	}{
		{"i8 max", math.MaxInt8, WireByte},
		{"i8 max plus one", math.MaxInt8 + 1, WireByte},
		{"u8 max", math.MaxUint8, WireByte},
		{"u8 max plus one", math.MaxUint8 + 1, WireInt16},
		{"i8 min", math.MinInt8, WireInt16},
		{"i16 max", math.MaxInt16, WireInt16},
		{"i16 min", math.MinInt16, WireInt16},
		{"i16 max plus one", math.MaxInt16 + 1, WireInt32},
		{"i32 max", math.MaxInt32, WireInt32},
		{"i32 min", math.MinInt32, WireInt32},
		{"i32 max plus one", math.MaxInt32 + 1, WireInt64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := &Buffer{}
			b.PutInt64(0, c.val)
			r := NewReader(b.Bytes)
			h, err := r.ReadHead()
			require.NoError(t, err)
			assert.Equal(t, c.kind, h.Type)
			v, err := r.GetInt64(h)
			require.NoError(t, err)
			assert.Equal(t, c.val, v)
		})
	}
}

func TestStringLengthBoundary(t *testing.T) {
	short := strings.Repeat("a", 255)
	long := strings.Repeat("a", 256)

	b := &Buffer{}
	b.PutString(0, short)
	r := NewReader(b.Bytes)
	h, err := r.ReadHead()
	require.NoError(t, err)
	assert.Equal(t, WireShortString, h.Type)
	got, err := r.GetString(h)
	require.NoError(t, err)
	assert.Equal(t, short, got)

	b2 := &Buffer{}
	b2.PutString(0, long)
	r2 := NewReader(b2.Bytes)
	h2, err := r2.ReadHead()
	require.NoError(t, err)
	assert.Equal(t, WireLongString, h2.Type)
	got2, err := r2.GetString(h2)
	require.NoError(t, err)
	assert.Equal(t, long, got2)
}

func TestStringEmpty(t *testing.T) {
	b := &Buffer{}
	b.PutString(0, "")
	r := NewReader(b.Bytes)
	h, err := r.ReadHead()
	require.NoError(t, err)
	s, err := r.GetString(h)
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestStringInvalidUTF8(t *testing.T) {
	b := &Buffer{}
	b.PutHead(WireShortString, 0)
	b.Bytes = append(b.Bytes, byte(2), 0xFF, 0xFE)
	r := NewReader(b.Bytes)
	h, err := r.ReadHead()
	require.NoError(t, err)
	_, err = r.GetString(h)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUTF8)
}

func TestFloatRoundTrip(t *testing.T) {
	b := &Buffer{}
	b.PutFloat32(0, 3.5)
	b.PutFloat64(1, -2.25)
	r := NewReader(b.Bytes)

	h, err := r.ReadHead()
	require.NoError(t, err)
	f32, err := r.GetFloat32(h)
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	h, err = r.ReadHead()
	require.NoError(t, err)
	f64, err := r.GetFloat64(h)
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)
}

func TestByteValueZeroEncodesToOneByte(t *testing.T) {
	b := &Buffer{}
	b.PutByte(0, 0)
	assert.Len(t, b.Bytes, 1)

	r := NewReader(b.Bytes)
	h, err := r.ReadHead()
	require.NoError(t, err)
	assert.Equal(t, WireZeroByte, h.Type)
	v, err := r.GetByte(h)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestBoolRoundTrip(t *testing.T) {
	b := &Buffer{}
	b.PutBool(0, true)
	b.PutBool(1, false)
	r := NewReader(b.Bytes)

	h, err := r.ReadHead()
	require.NoError(t, err)
	v, err := r.GetBool(h)
	require.NoError(t, err)
	assert.True(t, v)

	h, err = r.ReadHead()
	require.NoError(t, err)
	v, err = r.GetBool(h)
	require.NoError(t, err)
	assert.False(t, v)
}
