package jce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addressRecord struct {
	City string `jce:"0"`
	Zip  string `jce:"1"`
}

type personRecord struct {
	Name    string            `jce:"0,required"`
	Age     int32             `jce:"1"`
	Active  bool              `jce:"2"`
	Scores  []int16           `jce:"3"`
	Tags    map[string]int32  `jce:"4"`
	Home    addressRecord     `jce:"5"`
	Nick    *addressRecord    `jce:"6"`
	Payload []byte            `jce:"7"`
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := personRecord{
		Name:   "ada",
		Age:    36,
		Active: true,
		Scores: []int16{1, 2, 3},
		Tags:   map[string]int32{"x": 1, "y": 2},
		Home:   addressRecord{City: "london", Zip: "sw1"},
		Nick:   &addressRecord{City: "paris", Zip: "75"},
		Payload: []byte{9, 8, 7},
	}

	buf, err := Encode(&p)
	require.NoError(t, err)

	got, err := Decode[personRecord](buf)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Age, got.Age)
	assert.Equal(t, p.Active, got.Active)
	assert.Equal(t, p.Scores, got.Scores)
	assert.Equal(t, p.Tags, got.Tags)
	assert.Equal(t, p.Home, got.Home)
	require.NotNil(t, got.Nick)
	assert.Equal(t, *p.Nick, *got.Nick)
	assert.Equal(t, p.Payload, got.Payload)
}

func TestRequiredBoolFieldMissing(t *testing.T) {
	type withRequiredBool struct {
		Flag bool `jce:"0"`
	}
	// an empty body never supplies tag 0, so a bool field (which has no
	// usable zero-value default per bindStructFields) must error.
	_, err := Decode[withRequiredBool](nil)
	require.Error(t, err)
	var tme *TagMissingError
	assert.ErrorAs(t, err, &tme)
	assert.Equal(t, uint8(0), tme.Tag)
}

func TestRequiredFieldMissingExplicit(t *testing.T) {
	type withRequired struct {
		Name string `jce:"0,required"`
	}
	_, err := Decode[withRequired](nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTagMissing)
}

func TestOptionalFieldMissingUsesZeroValue(t *testing.T) {
	type withOptional struct {
		Name string `jce:"0"`
		Note string `jce:"1"`
	}
	b := &Buffer{}
	b.PutString(0, "hi")
	got, err := Decode[withOptional](b.Bytes)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Name)
	assert.Equal(t, "", got.Note)
}

func TestOutOfOrderTagsTolerated(t *testing.T) {
	type ordered struct {
		A int32 `jce:"0"`
		B int32 `jce:"1"`
	}
	// field at tag 1 written first, tag 0 second — decode must not fail:
	// seeking tag 0 scans forward past tag 1, and the scan never wraps
	// back, so B is treated as absent and keeps its zero value.
	b := &Buffer{}
	b.PutInt32(1, 222)
	b.PutInt32(0, 111)
	got, err := Decode[ordered](b.Bytes)
	require.NoError(t, err)
	assert.EqualValues(t, 111, got.A)
	assert.EqualValues(t, 0, got.B)
}

func TestNestedStructWrappedForm(t *testing.T) {
	type outer struct {
		Addr addressRecord `jce:"0"`
	}
	o := outer{Addr: addressRecord{City: "rome", Zip: "00100"}}
	buf, err := Encode(&o)
	require.NoError(t, err)

	r := NewReader(buf)
	h, err := r.ReadHead()
	require.NoError(t, err)
	assert.Equal(t, WireStructBegin, h.Type)

	got, err := Decode[outer](buf)
	require.NoError(t, err)
	assert.Equal(t, o.Addr, got.Addr)
}

func TestDecodeAtFindsTopLevelTag(t *testing.T) {
	b := &Buffer{}
	b.PutInt32(0, 5)
	b.PutString(1, "hello")

	got, err := DecodeAt[string](b.Bytes, 1)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestDecodeAtMissingTagErrors(t *testing.T) {
	b := &Buffer{}
	b.PutInt32(0, 5)

	_, err := DecodeAt[string](b.Bytes, 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTagMissing)
}

func TestDecodeUnboxSkipsWrapper(t *testing.T) {
	inner := &Buffer{}
	inner.PutString(2, "inside")

	outer := &Buffer{}
	outer.PutHead(WireStructBegin, 0)
	outer.Bytes = append(outer.Bytes, inner.Bytes...)
	outer.PutHead(WireStructEnd, 0)

	got, err := DecodeUnbox[string](outer.Bytes, 2)
	require.NoError(t, err)
	assert.Equal(t, "inside", got)
}

func TestListOfStructsRoundTrip(t *testing.T) {
	type withList struct {
		Addrs []addressRecord `jce:"0"`
	}
	w := withList{Addrs: []addressRecord{
		{City: "a", Zip: "1"},
		{City: "b", Zip: "2"},
	}}
	buf, err := Encode(&w)
	require.NoError(t, err)
	got, err := Decode[withList](buf)
	require.NoError(t, err)
	assert.Equal(t, w.Addrs, got.Addrs)
}
