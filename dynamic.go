package jce

// DecodeValue decodes buf's body into a dynamic Value tree with no
// schema (spec §4.5): the top-level buffer is read as an unwrapped
// struct body, the same way Decode[T] reads one, producing a
// Struct-shaped Value keyed by tag.
func DecodeValue(buf []byte) (Value, error) {
	r := NewReader(buf)
	s, err := decodeStructBody(r)
	if err != nil {
		return Value{}, err
	}
	return structValue(s), nil
}

// decodeStructBody reads fields until a StructEnd head or the buffer
// is exhausted, keying each by its head's tag (spec §4.5). The same
// loop serves both the unwrapped top level and a nested Struct body;
// the two are distinguished only by which condition ends the loop.
func decodeStructBody(r *Reader) (*Struct, error) {
	s := &Struct{}
	for r.BytesLeft() > 0 {
		h, err := r.ReadHead()
		if err != nil {
			return nil, err
		}
		if h.Type == WireStructEnd {
			return s, nil
		}
		v, err := decodeOneValue(r, h)
		if err != nil {
			return nil, wrapf(err, "tag %d", h.Tag)
		}
		s.set(h.Tag, v)
	}
	return s, nil
}

// decodeOneValue decodes the payload of an already-read head into a
// Value, recursing into containers and nested structs. Reserved wire
// types cannot be represented or skipped inside a dynamic body (spec
// §4.5), so they are always fatal here.
func decodeOneValue(r *Reader, h Head) (Value, error) {
	switch h.Type {
	case WireZeroByte, WireByte:
		b, err := r.GetByte(h)
		if err != nil {
			return Value{}, err
		}
		return byteValue(h.Type, b), nil
	case WireInt16:
		n, err := r.GetInt16(h)
		if err != nil {
			return Value{}, err
		}
		return intValue(WireInt16, int64(n)), nil
	case WireInt32:
		n, err := r.GetInt32(h)
		if err != nil {
			return Value{}, err
		}
		return intValue(WireInt32, int64(n)), nil
	case WireInt64:
		n, err := r.GetInt64(h)
		if err != nil {
			return Value{}, err
		}
		return intValue(WireInt64, n), nil
	case WireFloat32:
		f, err := r.GetFloat32(h)
		if err != nil {
			return Value{}, err
		}
		return float32Value(f), nil
	case WireFloat64:
		f, err := r.GetFloat64(h)
		if err != nil {
			return Value{}, err
		}
		return float64Value(f), nil
	case WireShortString, WireLongString:
		s, err := r.GetString(h)
		if err != nil {
			return Value{}, err
		}
		return stringValue(h.Type, s), nil
	case WireSimpleList:
		b, err := r.GetSimpleList(h)
		if err != nil {
			return Value{}, err
		}
		return bytesValue(b), nil
	case WireList:
		return decodeListValue(r, h)
	case WireMap:
		return decodeMapValue(r, h)
	case WireStructBegin:
		s, err := decodeStructBody(r)
		if err != nil {
			return Value{}, err
		}
		return structValue(s), nil
	default:
		return Value{}, &UnknownTypeError{Code: uint8(h.Type)}
	}
}

func decodeListValue(r *Reader, outer Head) (Value, error) {
	n, err := r.ReadSize()
	if err != nil {
		return Value{}, wrapf(err, "tag %d: list size", outer.Tag)
	}
	elems := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		eh, err := r.ReadHead()
		if err != nil {
			return Value{}, wrapf(err, "tag %d: element %d head", outer.Tag, i)
		}
		v, err := decodeOneValue(r, eh)
		if err != nil {
			return Value{}, wrapf(err, "tag %d: element %d", outer.Tag, i)
		}
		elems = append(elems, v)
	}
	return listValue(elems), nil
}

func decodeMapValue(r *Reader, outer Head) (Value, error) {
	n, err := r.ReadSize()
	if err != nil {
		return Value{}, wrapf(err, "tag %d: map size", outer.Tag)
	}
	pairs := make([]MapEntry, 0, n)
	for i := 0; i < n; i++ {
		kh, err := r.ReadHead()
		if err != nil {
			return Value{}, wrapf(err, "tag %d: entry %d key head", outer.Tag, i)
		}
		k, err := decodeOneValue(r, kh)
		if err != nil {
			return Value{}, wrapf(err, "tag %d: entry %d key", outer.Tag, i)
		}
		vh, err := r.ReadHead()
		if err != nil {
			return Value{}, wrapf(err, "tag %d: entry %d value head", outer.Tag, i)
		}
		v, err := decodeOneValue(r, vh)
		if err != nil {
			return Value{}, wrapf(err, "tag %d: entry %d value", outer.Tag, i)
		}
		pairs = append(pairs, MapEntry{Key: k, Value: v}) // duplicates kept; MapLookup returns the last (spec §4.3)
	}
	return mapValue(pairs), nil
}

// EncodeValue writes a Struct-shaped Value back to bytes with no
// wrapping Struct head, mirroring Encode's top-level framing rule.
func EncodeValue(v Value) ([]byte, error) {
	s, ok := v.Struct()
	if !ok {
		return nil, &TypeMismatchError{Expected: WireStructBegin, Actual: v.Kind()}
	}
	b := NewBufferFromPool()
	defer b.ReturnToPool()
	if err := encodeStructBody(b, s); err != nil {
		return nil, err
	}
	out := make([]byte, len(b.Bytes))
	copy(out, b.Bytes)
	return out, nil
}

func encodeStructBody(b *Buffer, s *Struct) error {
	for _, f := range s.fields {
		if err := encodeOneValue(b, f.tag, f.value); err != nil {
			return err
		}
	}
	return nil
}

func encodeOneValue(b *Buffer, tag uint8, v Value) error {
	switch v.kind {
	case WireZeroByte, WireByte:
		n, _ := v.Byte()
		b.PutByte(tag, n)
	case WireInt16:
		n, _ := v.Int16()
		b.PutInt16(tag, n)
	case WireInt32:
		n, _ := v.Int32()
		b.PutInt32(tag, n)
	case WireInt64:
		n, _ := v.Int64()
		b.PutInt64(tag, n)
	case WireFloat32:
		f, _ := v.Float32()
		b.PutFloat32(tag, f)
	case WireFloat64:
		f, _ := v.Float64()
		b.PutFloat64(tag, f)
	case WireShortString, WireLongString:
		s, _ := v.Str()
		b.PutString(tag, s)
	case WireSimpleList:
		raw, _ := v.Bytes()
		b.PutSimpleList(tag, raw)
	case WireList:
		elems, _ := v.List()
		b.PutListHeader(tag, len(elems))
		for _, e := range elems {
			if err := encodeOneValue(b, 0, e); err != nil {
				return err
			}
		}
	case WireMap:
		pairs, _ := v.Map()
		b.PutMapHeader(tag, len(pairs))
		for _, p := range pairs {
			if err := encodeOneValue(b, 0, p.Key); err != nil {
				return err
			}
			if err := encodeOneValue(b, 1, p.Value); err != nil {
				return err
			}
		}
	case WireStructBegin:
		s, _ := v.Struct()
		b.PutHead(WireStructBegin, tag)
		if err := encodeStructBody(b, s); err != nil {
			return err
		}
		b.PutHead(WireStructEnd, tag)
	default:
		return &UnknownTypeError{Code: uint8(v.kind)}
	}
	return nil
}
