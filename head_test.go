package jce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		typ  WireType
		tag  uint8
	}{
		{"tag zero", WireByte, 0},
		{"tag just under extended", WireInt32, 14},
		{"tag at extended marker", WireShortString, 15},
		{"tag large", WireList, 200},
		{"tag max", WireMap, 255},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := &Buffer{}
			b.PutHead(c.typ, c.tag)
			r := NewReader(b.Bytes)
			h, err := r.ReadHead()
			require.NoError(t, err)
			assert.Equal(t, c.typ, h.Type)
			assert.Equal(t, c.tag, h.Tag)
		})
	}
}

func TestHeadSingleByteBelowExtended(t *testing.T) {
	b := &Buffer{}
	b.PutHead(WireByte, 3)
	assert.Len(t, b.Bytes, 1)
	assert.Equal(t, byte(0x30), b.Bytes[0])
}

func TestHeadTwoBytesAtAndAboveExtended(t *testing.T) {
	b := &Buffer{}
	b.PutHead(WireByte, 15)
	require.Len(t, b.Bytes, 2)
	assert.Equal(t, byte(0xF0), b.Bytes[0])
	assert.Equal(t, byte(15), b.Bytes[1])
}

func TestReadHeadReservedTypeDecodesUnknown(t *testing.T) {
	r := NewReader([]byte{0x0E}) // tag 0, type 14 (reserved)
	h, err := r.ReadHead()
	require.NoError(t, err)
	assert.Equal(t, wireUnknown, h.Type)
}

func TestReadHeadTruncated(t *testing.T) {
	r := NewReader(nil)
	_, err := r.ReadHead()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
}
