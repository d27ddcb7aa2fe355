package jce

// StructBuilder fluently assembles a dynamic Struct value field by
// field without a compile-time schema (spec §4.5), the builder-API
// alternative to a generated record Writer (spec §6's binding
// contract: "a builder API" is one of the offered derivation paths).
type StructBuilder struct {
	s Struct
}

// NewStructBuilder starts an empty struct builder.
func NewStructBuilder() *StructBuilder {
	return &StructBuilder{}
}

func (sb *StructBuilder) AppendBool(tag uint8, value bool) *StructBuilder {
	var n uint8
	if value {
		n = 1
	}
	return sb.AppendByte(tag, n)
}

func (sb *StructBuilder) AppendByte(tag uint8, value uint8) *StructBuilder {
	sb.s.set(tag, byteValue(byteKind(value), value))
	return sb
}

func (sb *StructBuilder) AppendInt16(tag uint8, value int16) *StructBuilder {
	sb.s.set(tag, intValue(narrowIntKind(int64(value), WireInt16), int64(value)))
	return sb
}

func (sb *StructBuilder) AppendInt32(tag uint8, value int32) *StructBuilder {
	sb.s.set(tag, intValue(narrowIntKind(int64(value), WireInt32), int64(value)))
	return sb
}

func (sb *StructBuilder) AppendInt64(tag uint8, value int64) *StructBuilder {
	sb.s.set(tag, intValue(narrowIntKind(value, WireInt64), value))
	return sb
}

func (sb *StructBuilder) AppendFloat32(tag uint8, value float32) *StructBuilder {
	sb.s.set(tag, float32Value(value))
	return sb
}

func (sb *StructBuilder) AppendFloat64(tag uint8, value float64) *StructBuilder {
	sb.s.set(tag, float64Value(value))
	return sb
}

func (sb *StructBuilder) AppendString(tag uint8, value string) *StructBuilder {
	kind := WireShortString
	if len(value) >= 256 {
		kind = WireLongString
	}
	sb.s.set(tag, stringValue(kind, value))
	return sb
}

func (sb *StructBuilder) AppendBytes(tag uint8, value []byte) *StructBuilder {
	sb.s.set(tag, bytesValue(value))
	return sb
}

func (sb *StructBuilder) AppendList(tag uint8, value *ListBuilder) *StructBuilder {
	sb.s.set(tag, listValue(value.elems))
	return sb
}

func (sb *StructBuilder) AppendMap(tag uint8, value *MapBuilder) *StructBuilder {
	sb.s.set(tag, mapValue(value.pairs))
	return sb
}

func (sb *StructBuilder) AppendStruct(tag uint8, value *StructBuilder) *StructBuilder {
	sb.s.set(tag, structValue(value.Build()))
	return sb
}

// Build finalizes the builder into the Struct it assembled.
func (sb *StructBuilder) Build() *Struct {
	out := sb.s
	return &out
}

// ListBuilder assembles a dynamic List value one element at a time.
// JCE lists are homogeneous by contract (spec §4.3); the builder does
// not enforce that itself, leaving it to the caller the same way a
// generated Writer's element type does.
type ListBuilder struct {
	elems []Value
}

func NewListBuilder() *ListBuilder {
	return &ListBuilder{}
}

func (lb *ListBuilder) Append(v Value) *ListBuilder {
	lb.elems = append(lb.elems, v)
	return lb
}

// MapBuilder assembles a dynamic Map value one entry at a time.
type MapBuilder struct {
	pairs []MapEntry
}

func NewMapBuilder() *MapBuilder {
	return &MapBuilder{}
}

func (mb *MapBuilder) Append(key, value Value) *MapBuilder {
	mb.pairs = append(mb.pairs, MapEntry{Key: key, Value: value})
	return mb
}

func byteKind(v uint8) WireType {
	if v == 0 {
		return WireZeroByte
	}
	return WireByte
}
