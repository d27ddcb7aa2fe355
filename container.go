package jce

import "encoding/binary"

// Map (type 8) and List (type 9) share one framing rule (spec §4.3): a
// head, then an inner Int32 size at tag 0, then that many element
// frames (list: tag 0 per element; map: key@tag 0, value@tag 1).
// SimpleList (type 13) is the byte-array fast path with its own
// leading Byte(0) head artifact.

// PutListHeader writes a List head and its size field.
func (b *Buffer) PutListHeader(tag uint8, n int) {
	b.PutHead(WireList, tag)
	b.PutInt32(0, int32(n))
}

// PutMapHeader writes a Map head and its size field.
func (b *Buffer) PutMapHeader(tag uint8, n int) {
	b.PutHead(WireMap, tag)
	b.PutInt32(0, int32(n))
}

// ReadSize reads the Int32-shaped size field that opens a Map or List
// body (spec §4.3).
func (r *Reader) ReadSize() (int, error) {
	h, err := r.ReadHead()
	if err != nil {
		return 0, wrapf(err, "container size head")
	}
	return r.getLength(h)
}

// GetSimpleList reads a SimpleList payload: the historical leading
// dummy head (a bare head byte, no payload of its own), the narrowed
// Int32 length, then the raw bytes (spec §4.3). h is the
// already-consumed outer SimpleList head.
func (r *Reader) GetSimpleList(h Head) ([]byte, error) {
	if h.Type != WireSimpleList {
		return nil, &TypeMismatchError{Tag: h.Tag, Expected: WireSimpleList, Actual: h.Type}
	}
	// The dummy head is a historical artifact: one raw byte, consumed
	// and discarded without interpreting it as carrying a payload.
	if _, err := r.readByte(); err != nil {
		return nil, wrapf(err, "tag %d: simplelist dummy head", h.Tag)
	}

	lenHead, err := r.ReadHead()
	if err != nil {
		return nil, wrapf(err, "tag %d: simplelist length head", h.Tag)
	}
	n, err := r.getLength(lenHead)
	if err != nil {
		return nil, wrapf(err, "tag %d: simplelist length", h.Tag)
	}
	b, err := r.readN(n)
	if err != nil {
		return nil, wrapf(err, "tag %d: simplelist payload", h.Tag)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// skipValue skips the payload of a just-read head h, leaving the
// cursor positioned on the next head (spec §4.4 passValue). Unknown
// wire types cannot be skipped (spec §4.4/§4.5) since their frame
// length is undefined.
func skipValue(r *Reader, h Head) error {
	switch h.Type {
	case WireZeroByte, WireStructEnd:
		return nil

	case WireByte:
		return r.skipN(1)

	case WireInt16:
		return r.skipN(2)

	case WireInt32:
		return r.skipN(4)

	case WireInt64:
		return r.skipN(8)

	case WireFloat32:
		return r.skipN(4)

	case WireFloat64:
		return r.skipN(8)

	case WireShortString:
		b, err := r.readByte()
		if err != nil {
			return wrapf(err, "tag %d: skip short string length", h.Tag)
		}
		return r.skipN(int(b))

	case WireLongString:
		b, err := r.readN(4)
		if err != nil {
			return wrapf(err, "tag %d: skip long string length", h.Tag)
		}
		length := int32(binary.BigEndian.Uint32(b))
		if length < 0 {
			return &LengthInvalidError{Type: WireLongString, Length: int64(length)}
		}
		return r.skipN(int(length))

	case WireMap:
		return skipMapOrList(r, h, true)

	case WireList:
		return skipMapOrList(r, h, false)

	case WireSimpleList:
		_, err := r.GetSimpleList(h)
		return err

	case WireStructBegin:
		return skipStruct(r)

	default:
		return &UnknownTypeError{Code: uint8(h.Type)}
	}
}

// skipMapOrList skips size sub-frames following the size field
// (spec §4.4 passValue: "Map/List: read inner size, recursively skip
// that many sub-frames").
func skipMapOrList(r *Reader, outer Head, isMap bool) error {
	n, err := r.ReadSize()
	if err != nil {
		return wrapf(err, "tag %d: container size", outer.Tag)
	}
	for i := 0; i < n; i++ {
		keyHead, err := r.ReadHead()
		if err != nil {
			return wrapf(err, "tag %d: element %d head", outer.Tag, i)
		}
		if err := skipValue(r, keyHead); err != nil {
			return err
		}
		if isMap {
			valHead, err := r.ReadHead()
			if err != nil {
				return wrapf(err, "tag %d: element %d value head", outer.Tag, i)
			}
			if err := skipValue(r, valHead); err != nil {
				return err
			}
		}
	}
	return nil
}

// skipStruct skips fields until a matching StructEnd (spec §4.4
// passValue for nested Struct).
func skipStruct(r *Reader) error {
	for {
		h, err := r.ReadHead()
		if err != nil {
			return wrapf(err, "skip struct: next field head")
		}
		if h.Type == WireStructEnd {
			return nil
		}
		if err := skipValue(r, h); err != nil {
			return err
		}
	}
}
