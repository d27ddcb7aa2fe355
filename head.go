package jce

import "fmt"

// WireType is the closed enumeration of JCE wire type codes (spec §3).
// Codes 14 and above are reserved; they decode to wireUnknown and are
// legal only when subsequently skipped (spec §4.1).
type WireType uint8

const (
	WireByte        WireType = 0
	WireInt16       WireType = 1
	WireInt32       WireType = 2
	WireInt64       WireType = 3
	WireFloat32     WireType = 4
	WireFloat64     WireType = 5
	WireShortString WireType = 6
	WireLongString  WireType = 7
	WireMap         WireType = 8
	WireList        WireType = 9
	WireStructBegin WireType = 10
	WireStructEnd   WireType = 11
	WireZeroByte    WireType = 12
	WireSimpleList  WireType = 13

	// wireUnknown marks a head whose type code is reserved (>= 14). It
	// never appears on the wire itself.
	wireUnknown WireType = 0xFF
)

func (w WireType) String() string {
	switch w {
	case WireByte:
		return "Byte"
	case WireInt16:
		return "Int16"
	case WireInt32:
		return "Int32"
	case WireInt64:
		return "Int64"
	case WireFloat32:
		return "Float32"
	case WireFloat64:
		return "Float64"
	case WireShortString:
		return "ShortString"
	case WireLongString:
		return "LongString"
	case WireMap:
		return "Map"
	case WireList:
		return "List"
	case WireStructBegin:
		return "StructBegin"
	case WireStructEnd:
		return "StructEnd"
	case WireZeroByte:
		return "ZeroByte"
	case WireSimpleList:
		return "SimpleList"
	case wireUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("WireType(%d)", uint8(w))
	}
}

// tagExtended is the sentinel tag byte (upper nibble) signalling that
// the real tag follows in a second byte (spec §3 head encoding).
const tagExtended = 0x0F

// Head is the (type, tag) pair carried by a one- or two-byte head
// (spec §4.1).
type Head struct {
	Type WireType
	Tag  uint8
}

// writeHead emits a one- or two-byte head per spec §3: tag < 15 packs
// into a single byte, otherwise the type byte carries the 0xF marker
// nibble and the tag follows in a second byte.
func writeHead(b *Buffer, typ WireType, tag uint8) {
	if tag < tagExtended {
		b.Bytes = append(b.Bytes, (tag<<4)|byte(typ&0x0F))
		return
	}
	b.Bytes = append(b.Bytes, 0xF0|byte(typ&0x0F))
	b.Bytes = append(b.Bytes, tag)
}

// readHead consumes one or two bytes and returns the decoded head,
// advancing the cursor. Reserved type codes (>= 14) decode to
// wireUnknown rather than failing outright; callers that cannot
// tolerate an unknown type reject it themselves (spec §4.1).
func readHead(r *Reader) (Head, error) {
	b, err := r.readByte()
	if err != nil {
		return Head{}, wrapf(err, "read head")
	}

	typ := WireType(b & 0x0F)
	if typ > WireSimpleList {
		typ = wireUnknown
	}

	tag := b >> 4
	if tag == tagExtended {
		tb, err := r.readByte()
		if err != nil {
			return Head{}, wrapf(err, "read extended tag")
		}
		tag = tb
	}

	return Head{Type: typ, Tag: tag}, nil
}
