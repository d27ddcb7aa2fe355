package jce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValueScalarFields(t *testing.T) {
	b := &Buffer{}
	b.PutInt32(0, 42)
	b.PutString(1, "hi")
	b.PutBool(2, true)

	v, err := DecodeValue(b.Bytes)
	require.NoError(t, err)
	s, ok := v.Struct()
	require.True(t, ok)

	f0, ok := s.Get(0)
	require.True(t, ok)
	n, ok := f0.Int32()
	require.True(t, ok)
	assert.EqualValues(t, 42, n)

	f1, ok := s.Get(1)
	require.True(t, ok)
	str, ok := f1.Str()
	require.True(t, ok)
	assert.Equal(t, "hi", str)

	f2, ok := s.Get(2)
	require.True(t, ok)
	bv, ok := f2.Bool()
	require.True(t, ok)
	assert.True(t, bv)
}

func TestEncodeValueDecodeValueRoundTrip(t *testing.T) {
	sb := NewStructBuilder().
		AppendInt32(0, 100).
		AppendString(1, "outer").
		AppendStruct(2, NewStructBuilder().AppendString(0, "nested").AppendInt32(1, 7))

	v := structValue(sb.Build())
	buf, err := EncodeValue(v)
	require.NoError(t, err)

	got, err := DecodeValue(buf)
	require.NoError(t, err)
	gs, ok := got.Struct()
	require.True(t, ok)

	f0, _ := gs.Get(0)
	n, _ := f0.Int32()
	assert.EqualValues(t, 100, n)

	f1, _ := gs.Get(1)
	str, _ := f1.Str()
	assert.Equal(t, "outer", str)

	f2, ok := gs.Get(2)
	require.True(t, ok)
	nested, ok := f2.Struct()
	require.True(t, ok)
	nf0, _ := nested.Get(0)
	nstr, _ := nf0.Str()
	assert.Equal(t, "nested", nstr)
}

func TestDecodeValueListAndMap(t *testing.T) {
	b := &Buffer{}
	b.PutListHeader(0, 2)
	b.PutInt32(0, 1)
	b.PutInt32(0, 2)
	b.PutMapHeader(1, 1)
	b.PutString(0, "k")
	b.PutInt32(1, 9)

	v, err := DecodeValue(b.Bytes)
	require.NoError(t, err)
	s, ok := v.Struct()
	require.True(t, ok)

	listField, ok := s.Get(0)
	require.True(t, ok)
	elems, ok := listField.List()
	require.True(t, ok)
	require.Len(t, elems, 2)
	n0, _ := elems[0].Int32()
	n1, _ := elems[1].Int32()
	assert.EqualValues(t, 1, n0)
	assert.EqualValues(t, 2, n1)

	mapField, ok := s.Get(1)
	require.True(t, ok)
	pairs, ok := mapField.Map()
	require.True(t, ok)
	require.Len(t, pairs, 1)
	key, _ := pairs[0].Key.Str()
	val, _ := pairs[0].Value.Int32()
	assert.Equal(t, "k", key)
	assert.EqualValues(t, 9, val)
}

func TestDecodeValueUnknownTypeIsFatal(t *testing.T) {
	r := NewReader([]byte{0x0E}) // reserved type 14, tag 0
	_, err := decodeStructBody(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestSprintDoesNotPanic(t *testing.T) {
	b := &Buffer{}
	b.PutInt32(0, 1)
	b.PutString(1, "x")
	v, err := DecodeValue(b.Bytes)
	require.NoError(t, err)
	out := Sprint(v)
	assert.NotEmpty(t, out)
}
