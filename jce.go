package jce

import (
	"reflect"

	pkgerrors "github.com/pkg/errors"
)

// Decode decodes buf's body directly as T, with no wrapping Struct
// head (spec §6 entry point 1): a fresh reader, first head pre-read,
// T's own field bindings applied.
func Decode[T any](buf []byte) (T, error) {
	var out T
	sp, err := structSpecFor(reflect.TypeOf(out))
	if err != nil {
		var zero T
		return zero, err
	}
	fc, err := newFieldCursor(NewReader(buf))
	if err != nil {
		var zero T
		return zero, err
	}
	rv := reflect.ValueOf(&out).Elem()
	if err := bindStructFields(fc, sp, rv); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// DecodeAt scans buf's top-level field stream for tag and decodes
// only that field as T (spec §6 entry point 2). Unlike a record's own
// optional fields, a missing tag here is always an error: DecodeAt is
// the strict single-tag lookup mode of spec §9.
func DecodeAt[T any](buf []byte, tag uint8) (T, error) {
	return decodeAtReader[T](NewReader(buf), tag)
}

// DecodeUnbox skips buf's leading Struct wrapper head, then performs
// DecodeAt within that wrapper's body (spec §6 entry point 3) — the
// shape produced when a record is itself carried as the sole payload
// of an enclosing struct.
func DecodeUnbox[T any](buf []byte, tag uint8) (T, error) {
	var zero T
	r := NewReader(buf)
	h, err := r.ReadHead()
	if err != nil {
		return zero, err
	}
	if h.Type != WireStructBegin {
		return zero, &TypeMismatchError{Tag: h.Tag, Expected: WireStructBegin, Actual: h.Type}
	}
	return decodeAtReader[T](r, tag)
}

func decodeAtReader[T any](r *Reader, tag uint8) (T, error) {
	var zero T
	ts, err := buildTypeSpec(reflect.TypeOf(zero), nil)
	if err != nil {
		return zero, err
	}
	fc, err := newFieldCursor(r)
	if err != nil {
		return zero, err
	}
	if err := fc.goToTag(tag); err != nil {
		return zero, wrapf(err, "tag %d", tag)
	}
	if fc.atEnd {
		return zero, &TagMissingError{Tag: tag}
	}

	var out T
	rv := reflect.ValueOf(&out).Elem()
	if ts.kind == kindStruct {
		if err := readStructFieldInto(fc, tag, ts, rv); err != nil {
			return zero, err
		}
		return out, nil
	}
	if err := readValue(fc.r, fc.head, tag, ts, rv); err != nil {
		return zero, err
	}
	return out, nil
}

// Encode writes v's bound fields with no wrapping Struct head (spec
// §6 entry point 4, §4.4's "top-level emission omits the Struct
// framing; the buffer is the body"). v must be a struct or a pointer
// to one.
func Encode(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, pkgerrors.New("jce: encode of nil pointer")
		}
		rv = rv.Elem()
	}
	sp, err := structSpecFor(rv.Type())
	if err != nil {
		return nil, err
	}
	b := NewBufferFromPool()
	defer b.ReturnToPool()
	writeStructBody(b, sp, rv)
	out := make([]byte, len(b.Bytes))
	copy(out, b.Bytes)
	return out, nil
}
