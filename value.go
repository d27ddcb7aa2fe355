package jce

// Value is the dynamic logical value tree of spec §3: every JCE value
// can be represented without a compile-time schema.
type Value struct {
	kind  WireType
	i     int64
	f32   float32
	f64   float64
	b     bool
	str   string
	bytes []byte
	list  []Value
	pairs []MapEntry
	strct *Struct
}

// MapKey is the restricted set of types JCE allows as map keys
// (spec §3): String, Byte, Int16, Int32, Int64.
type MapKey = Value

// MapEntry is one key/value pair of a decoded dynamic Map.
type MapEntry struct {
	Key   MapKey
	Value Value
}

// Struct is an ordered, tag-keyed mapping decoded from a struct body
// (spec §3/§4.5), kept in ascending tag order.
type Struct struct {
	fields []structField
}

type structField struct {
	tag   uint8
	value Value
}

// Get returns the field at tag and whether it was present.
func (s *Struct) Get(tag uint8) (Value, bool) {
	for _, f := range s.fields {
		if f.tag == tag {
			return f.value, true
		}
	}
	return Value{}, false
}

// Tags returns the struct's field tags in ascending order.
func (s *Struct) Tags() []uint8 {
	tags := make([]uint8, len(s.fields))
	for i, f := range s.fields {
		tags[i] = f.tag
	}
	return tags
}

// set inserts or overwrites the field at tag, keeping fields sorted
// ascending (spec §3: struct fields are produced in ascending order
// by well-behaved encoders; later occurrences on read shadow earlier
// ones, per spec §3's tag-uniqueness invariant).
func (s *Struct) set(tag uint8, v Value) {
	for i, f := range s.fields {
		if f.tag == tag {
			s.fields[i].value = v
			return
		}
	}
	i := 0
	for i < len(s.fields) && s.fields[i].tag < tag {
		i++
	}
	s.fields = append(s.fields, structField{})
	copy(s.fields[i+1:], s.fields[i:])
	s.fields[i] = structField{tag: tag, value: v}
}

// Kind reports the value's wire-level shape.
func (v Value) Kind() WireType { return v.kind }

// IsEmpty reports whether v is the zero Value (spec §3's Empty).
func (v Value) IsEmpty() bool { return v.kind == 0 && v.i == 0 && v.f64 == 0 && v.str == "" && v.list == nil && v.pairs == nil && v.strct == nil }

// Byte returns v's payload as a uint8, and whether v holds a
// byte-shaped value (Byte or ZeroByte).
func (v Value) Byte() (uint8, bool) {
	if v.kind == WireByte || v.kind == WireZeroByte {
		return uint8(v.i), true
	}
	return 0, false
}

// Bool returns v's payload as a bool.
func (v Value) Bool() (bool, bool) {
	if v.kind == WireByte || v.kind == WireZeroByte {
		return v.i != 0, true
	}
	return false, false
}

// Int16 returns v's payload widened to int16.
func (v Value) Int16() (int16, bool) {
	if n, ok := v.intPayload(); ok {
		return int16(n), true
	}
	return 0, false
}

// Int32 returns v's payload widened to int32.
func (v Value) Int32() (int32, bool) {
	if n, ok := v.intPayload(); ok {
		return int32(n), true
	}
	return 0, false
}

// Int64 returns v's payload widened to int64.
func (v Value) Int64() (int64, bool) {
	return v.intPayload()
}

func (v Value) intPayload() (int64, bool) {
	switch v.kind {
	case WireByte, WireZeroByte, WireInt16, WireInt32, WireInt64:
		return v.i, true
	default:
		return 0, false
	}
}

// Float32 returns v's payload as a float32. No coercion from Float64.
func (v Value) Float32() (float32, bool) {
	if v.kind == WireFloat32 {
		return v.f32, true
	}
	return 0, false
}

// Float64 returns v's payload as a float64. No coercion from Float32.
func (v Value) Float64() (float64, bool) {
	if v.kind == WireFloat64 {
		return v.f64, true
	}
	return 0, false
}

// Str returns v's payload as a string.
func (v Value) Str() (string, bool) {
	if v.kind == WireShortString || v.kind == WireLongString {
		return v.str, true
	}
	return "", false
}

// Bytes returns v's payload as a byte slice (SimpleList).
func (v Value) Bytes() ([]byte, bool) {
	if v.kind == WireSimpleList {
		return v.bytes, true
	}
	return nil, false
}

// List returns v's elements, if v is a List.
func (v Value) List() ([]Value, bool) {
	if v.kind == WireList {
		return v.list, true
	}
	return nil, false
}

// Map returns v's entries, if v is a Map.
func (v Value) Map() ([]MapEntry, bool) {
	if v.kind == WireMap {
		return v.pairs, true
	}
	return nil, false
}

// MapLookup finds the value for the given key within a Map value, by
// structural equality of the decoded key. Decoding keeps duplicate
// keys in wire order; lookup scans from the last entry backwards, so
// a later entry shadows an earlier one with an equal key.
func (v Value) MapLookup(key Value) (Value, bool) {
	pairs, ok := v.Map()
	if !ok {
		return Value{}, false
	}
	for i := len(pairs) - 1; i >= 0; i-- {
		if valuesEqual(pairs[i].Key, key) {
			return pairs[i].Value, true
		}
	}
	return Value{}, false
}

// Struct returns v's nested struct tree.
func (v Value) Struct() (*Struct, bool) {
	if v.kind == WireStructBegin {
		return v.strct, true
	}
	return nil, false
}

func valuesEqual(a, b Value) bool {
	if a.kind != b.kind {
		// byte-shaped keys of different numeric wire type still
		// compare equal if both are integer-shaped with the same value
		ai, aok := a.intPayload()
		bi, bok := b.intPayload()
		if aok && bok {
			return ai == bi
		}
		return false
	}
	switch a.kind {
	case WireShortString, WireLongString:
		return a.str == b.str
	default:
		return a.i == b.i
	}
}

func byteValue(tag WireType, n uint8) Value  { return Value{kind: tag, i: int64(n)} }
func intValue(tag WireType, n int64) Value   { return Value{kind: tag, i: n} }
func float32Value(n float32) Value           { return Value{kind: WireFloat32, f32: n} }
func float64Value(n float64) Value           { return Value{kind: WireFloat64, f64: n} }
func stringValue(tag WireType, s string) Value { return Value{kind: tag, str: s} }
func bytesValue(b []byte) Value              { return Value{kind: WireSimpleList, bytes: b} }
func listValue(elems []Value) Value          { return Value{kind: WireList, list: elems} }
func mapValue(pairs []MapEntry) Value        { return Value{kind: WireMap, pairs: pairs} }
func structValue(s *Struct) Value            { return Value{kind: WireStructBegin, strct: s} }
