package jce

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// fieldKind classifies a bound struct field by the shape of codec it
// needs (spec §4.4's `LogicalType`).
type fieldKind uint8

const (
	kindBool fieldKind = iota
	kindByte
	kindInt16
	kindInt32
	kindInt64
	kindFloat32
	kindFloat64
	kindString
	kindBytes
	kindList
	kindMap
	kindStruct
)

// typeSpec is the reflection-derived codec description for one Go
// type reachable from a bound record: a scalar, or a list/map/struct
// whose element(s) recurse into their own typeSpec.
type typeSpec struct {
	kind  fieldKind
	goTyp reflect.Type
	ptr   bool      // Go type is *T; only meaningful for kindStruct
	elem  *typeSpec // slice element, or map value
	key   *typeSpec // map key
	strct *structSpec
}

// fieldSpec binds one struct field to its wire tag (spec §4.4's
// `fields()` contract entry).
type fieldSpec struct {
	tag      uint8
	required bool
	index    []int
	typeSpec
}

// structSpec is a type's bound field list, sorted ascending by tag to
// match the order a well-behaved encoder produces (spec §3). ready is
// closed once fields/err are safe to read without further
// synchronization; ready gates every reader except the goroutine
// currently populating sp itself (see structSpecForBuilding).
type structSpec struct {
	typ    reflect.Type
	fields []fieldSpec
	ready  chan struct{}
	err    error
}

var structSpecCache sync.Map // reflect.Type -> *structSpec

// structSpecFor returns the cached (or newly built) field binding for
// t, a struct type. Building happens once per type per process; spec
// §5 requires readers on independent buffers to run without
// synchronization, so concurrent first-use callers must block on the
// same in-flight build rather than observe a half-populated spec.
func structSpecFor(t reflect.Type) (*structSpec, error) {
	return structSpecForBuilding(t, nil)
}

// structSpecForBuilding is structSpecFor with the set of types already
// under construction earlier in this same call stack. A self-
// referential record type (a struct with a *Self field) recurses back
// into its own not-yet-ready structSpec while populating it; building
// lets that recursive call take the in-progress pointer directly
// instead of blocking on its own ready channel, which would deadlock.
// Callers reaching t from a different goroutine never have it in
// building and correctly wait on ready.
func structSpecForBuilding(t reflect.Type, building map[reflect.Type]*structSpec) (*structSpec, error) {
	if sp, ok := building[t]; ok {
		return sp, nil
	}
	if v, ok := structSpecCache.Load(t); ok {
		sp := v.(*structSpec)
		<-sp.ready
		return sp, sp.err
	}

	sp := &structSpec{typ: t, ready: make(chan struct{})}
	actual, loaded := structSpecCache.LoadOrStore(t, sp)
	if loaded {
		sp = actual.(*structSpec)
		<-sp.ready
		return sp, sp.err
	}

	if building == nil {
		building = make(map[reflect.Type]*structSpec)
	}
	building[t] = sp
	sp.err = populateStructSpec(sp, building)
	close(sp.ready)
	if sp.err != nil {
		structSpecCache.Delete(t)
		return nil, sp.err
	}
	return sp, nil
}

func populateStructSpec(sp *structSpec, building map[reflect.Type]*structSpec) error {
	t := sp.typ
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("jce: %s is not a struct", t)
	}
	var fields []fieldSpec
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		raw, ok := f.Tag.Lookup("jce")
		if !ok || raw == "-" {
			continue
		}
		parts := strings.Split(raw, ",")
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || n < 0 || n > 255 {
			return fmt.Errorf("jce: field %s.%s: invalid tag %q", t, f.Name, raw)
		}
		required := false
		for _, opt := range parts[1:] {
			if strings.TrimSpace(opt) == "required" {
				required = true
			}
		}
		ts, err := buildTypeSpec(f.Type, building)
		if err != nil {
			return fmt.Errorf("jce: field %s.%s: %w", t, f.Name, err)
		}
		fields = append(fields, fieldSpec{
			tag:      uint8(n),
			required: required,
			index:    f.Index,
			typeSpec: *ts,
		})
	}
	for i, a := range fields {
		for _, b := range fields[i+1:] {
			if a.tag == b.tag {
				return fmt.Errorf("jce: %s: duplicate tag %d", t, a.tag)
			}
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].tag < fields[j].tag })
	sp.fields = fields
	return nil
}

var byteSliceType = reflect.TypeOf([]byte(nil))

// buildTypeSpec derives the codec shape for a Go type reachable from a
// bound field: a scalar, []byte (SimpleList), a homogeneous slice
// (List), a map (Map), or a struct/*struct (nested record). building
// carries the in-progress structSpecs of the current build call stack
// through to any nested struct/pointer-to-struct field, so a
// self-referential record type resolves via structSpecForBuilding
// instead of structSpecFor (see that function's doc).
func buildTypeSpec(t reflect.Type, building map[reflect.Type]*structSpec) (*typeSpec, error) {
	if t == byteSliceType {
		return &typeSpec{kind: kindBytes, goTyp: t}, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return &typeSpec{kind: kindBool, goTyp: t}, nil
	case reflect.Uint8:
		return &typeSpec{kind: kindByte, goTyp: t}, nil
	case reflect.Int16:
		return &typeSpec{kind: kindInt16, goTyp: t}, nil
	case reflect.Int32:
		return &typeSpec{kind: kindInt32, goTyp: t}, nil
	case reflect.Int64:
		return &typeSpec{kind: kindInt64, goTyp: t}, nil
	case reflect.Float32:
		return &typeSpec{kind: kindFloat32, goTyp: t}, nil
	case reflect.Float64:
		return &typeSpec{kind: kindFloat64, goTyp: t}, nil
	case reflect.String:
		return &typeSpec{kind: kindString, goTyp: t}, nil
	case reflect.Slice:
		elem, err := buildTypeSpec(t.Elem(), building)
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		return &typeSpec{kind: kindList, goTyp: t, elem: elem}, nil
	case reflect.Map:
		key, err := buildTypeSpec(t.Key(), building)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		val, err := buildTypeSpec(t.Elem(), building)
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		return &typeSpec{kind: kindMap, goTyp: t, key: key, elem: val}, nil
	case reflect.Struct:
		sp, err := structSpecForBuilding(t, building)
		if err != nil {
			return nil, err
		}
		return &typeSpec{kind: kindStruct, goTyp: t, strct: sp}, nil
	case reflect.Ptr:
		if t.Elem().Kind() != reflect.Struct {
			return nil, fmt.Errorf("unsupported pointer type %s", t)
		}
		sp, err := structSpecForBuilding(t.Elem(), building)
		if err != nil {
			return nil, err
		}
		return &typeSpec{kind: kindStruct, goTyp: t.Elem(), ptr: true, strct: sp}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}

// fieldCursor implements the head-lookahead state machine of spec
// §4.4: it always holds the most recently read head plus whether that
// head's payload has already been consumed, so field binding can
// always look one head ahead of its own progress.
type fieldCursor struct {
	r        *Reader
	head     Head
	consumed bool
	atEnd    bool // positioned on StructEnd, or the buffer is exhausted
}

// newFieldCursor opens a cursor and reads the first head, per spec
// §4.4 "on entry, the reader has read the first head".
func newFieldCursor(r *Reader) (*fieldCursor, error) {
	fc := &fieldCursor{r: r}
	if err := fc.advance(); err != nil {
		return nil, err
	}
	return fc, nil
}

// startFieldCursor seeds a cursor with an already-read head, used by
// the inline nested-struct dispatch where the caller has already
// consumed the head that decided Struct-vs-inline.
func startFieldCursor(r *Reader, h Head) *fieldCursor {
	return &fieldCursor{r: r, head: h}
}

func (fc *fieldCursor) advance() error {
	if fc.r.BytesLeft() == 0 {
		fc.atEnd = true
		return nil
	}
	h, err := fc.r.ReadHead()
	if err != nil {
		return err
	}
	fc.head = h
	fc.consumed = false
	fc.atEnd = h.Type == WireStructEnd
	return nil
}

// passCurrent skips the current head's payload if not yet read (spec
// §4.4's passValue, invoked from goToTag and endStruct).
func (fc *fieldCursor) passCurrent() error {
	if fc.atEnd || fc.consumed {
		return nil
	}
	fc.consumed = true
	return skipValue(fc.r, fc.head)
}

// goToTag positions the cursor on tag, or marks atEnd if tag is not
// found before StructEnd/buffer exhaustion (spec §4.4 step 2).
func (fc *fieldCursor) goToTag(tag uint8) error {
	if !fc.atEnd && fc.head.Tag == tag {
		return nil
	}
	if err := fc.passCurrent(); err != nil {
		return err
	}
	for {
		if err := fc.advance(); err != nil {
			return err
		}
		if fc.atEnd || fc.head.Tag == tag {
			return nil
		}
		if err := fc.passCurrent(); err != nil {
			return err
		}
	}
}

// endStruct advances past any remaining fields up to and including
// the terminating StructEnd (spec §4.4).
func (fc *fieldCursor) endStruct() error {
	for !fc.atEnd {
		if err := fc.passCurrent(); err != nil {
			return err
		}
		if err := fc.advance(); err != nil {
			return err
		}
	}
	return nil
}

// bindStructFields runs the read protocol of spec §4.4 over sp's
// fields, writing decoded values into rv (addressable, of type
// sp.typ).
func bindStructFields(fc *fieldCursor, sp *structSpec, rv reflect.Value) error {
	for i := range sp.fields {
		fs := &sp.fields[i]
		if err := fc.goToTag(fs.tag); err != nil {
			return wrapf(err, "tag %d", fs.tag)
		}
		fv := rv.FieldByIndex(fs.index)
		if fc.atEnd {
			if fs.kind == kindBool || fs.required {
				return &TagMissingError{Tag: fs.tag}
			}
			continue // Go's zero value already matches empty()
		}
		if fs.kind == kindStruct {
			if err := readStructFieldInto(fc, fs.tag, &fs.typeSpec, fv); err != nil {
				return err
			}
			continue
		}
		if err := readValue(fc.r, fc.head, fs.tag, &fs.typeSpec, fv); err != nil {
			return err
		}
		fc.consumed = true
		if err := fc.advance(); err != nil {
			return err
		}
	}
	return nil
}

// readStructFieldInto decodes a nested-struct-typed field at fc's
// current head, implementing spec §4.4's Struct-vs-inline dispatch,
// and leaves fc positioned on the next unconsumed head either way.
func readStructFieldInto(fc *fieldCursor, tag uint8, ts *typeSpec, fv reflect.Value) error {
	target := fv
	if ts.ptr {
		if target.IsNil() {
			target.Set(reflect.New(ts.goTyp))
		}
		target = target.Elem()
	}

	if fc.head.Type == WireStructBegin {
		fc.consumed = true
		child, err := newFieldCursor(fc.r)
		if err != nil {
			return wrapf(err, "tag %d: struct body", tag)
		}
		if err := bindStructFields(child, ts.strct, target); err != nil {
			return err
		}
		if err := child.endStruct(); err != nil {
			return wrapf(err, "tag %d: struct end", tag)
		}
		return fc.advance()
	}

	// Legacy inline layout: the current head is already the nested
	// struct's own first field, unconsumed, sharing the outer cursor
	// directly (there is no wrapping StructEnd to consume). consumed
	// must stay false here: the inner goToTag/passCurrent still needs
	// to skip this head's payload if the nested struct's first
	// declared field doesn't match it.
	return bindStructFields(fc, ts.strct, target)
}

// readStructElement decodes a struct-typed list/map element. Inline
// legacy framing only ever applies to a record's own top-level fields
// (spec §4.4), never to container elements, so this only accepts the
// wrapped Struct form.
func readStructElement(r *Reader, h Head, ts *typeSpec, fv reflect.Value) error {
	if h.Type != WireStructBegin {
		return &TypeMismatchError{Tag: h.Tag, Expected: WireStructBegin, Actual: h.Type}
	}
	target := fv
	if ts.ptr {
		if target.IsNil() {
			target.Set(reflect.New(ts.goTyp))
		}
		target = target.Elem()
	}
	child, err := newFieldCursor(r)
	if err != nil {
		return err
	}
	if err := bindStructFields(child, ts.strct, target); err != nil {
		return err
	}
	return child.endStruct()
}

// readValue decodes the payload of an already-read head h into fv,
// dispatching on ts.kind (spec §4.2/§4.3).
func readValue(r *Reader, h Head, tag uint8, ts *typeSpec, fv reflect.Value) error {
	switch ts.kind {
	case kindBool:
		v, err := r.GetBool(h)
		if err != nil {
			return err
		}
		fv.SetBool(v)
	case kindByte:
		v, err := r.GetByte(h)
		if err != nil {
			return err
		}
		fv.SetUint(uint64(v))
	case kindInt16:
		v, err := r.GetInt16(h)
		if err != nil {
			return err
		}
		fv.SetInt(int64(v))
	case kindInt32:
		v, err := r.GetInt32(h)
		if err != nil {
			return err
		}
		fv.SetInt(int64(v))
	case kindInt64:
		v, err := r.GetInt64(h)
		if err != nil {
			return err
		}
		fv.SetInt(v)
	case kindFloat32:
		v, err := r.GetFloat32(h)
		if err != nil {
			return err
		}
		fv.SetFloat(float64(v))
	case kindFloat64:
		v, err := r.GetFloat64(h)
		if err != nil {
			return err
		}
		fv.SetFloat(v)
	case kindString:
		v, err := r.GetString(h)
		if err != nil {
			return err
		}
		fv.SetString(v)
	case kindBytes:
		v, err := r.GetSimpleList(h)
		if err != nil {
			return err
		}
		fv.SetBytes(v)
	case kindList:
		return readList(r, h, tag, ts, fv)
	case kindMap:
		return readMapField(r, h, tag, ts, fv)
	case kindStruct:
		return readStructElement(r, h, ts, fv)
	}
	return nil
}

func readList(r *Reader, outer Head, tag uint8, ts *typeSpec, fv reflect.Value) error {
	if outer.Type != WireList {
		return &TypeMismatchError{Tag: tag, Expected: WireList, Actual: outer.Type}
	}
	n, err := r.ReadSize()
	if err != nil {
		return wrapf(err, "tag %d: list size", tag)
	}
	slice := reflect.MakeSlice(ts.goTyp, n, n)
	for i := 0; i < n; i++ {
		eh, err := r.ReadHead()
		if err != nil {
			return wrapf(err, "tag %d: element %d head", tag, i)
		}
		if err := readValue(r, eh, 0, ts.elem, slice.Index(i)); err != nil {
			return wrapf(err, "tag %d: element %d", tag, i)
		}
	}
	fv.Set(slice)
	return nil
}

func readMapField(r *Reader, outer Head, tag uint8, ts *typeSpec, fv reflect.Value) error {
	if outer.Type != WireMap {
		return &TypeMismatchError{Tag: tag, Expected: WireMap, Actual: outer.Type}
	}
	n, err := r.ReadSize()
	if err != nil {
		return wrapf(err, "tag %d: map size", tag)
	}
	m := reflect.MakeMapWithSize(ts.goTyp, n)
	for i := 0; i < n; i++ {
		kh, err := r.ReadHead()
		if err != nil {
			return wrapf(err, "tag %d: entry %d key head", tag, i)
		}
		kv := reflect.New(ts.key.goTyp).Elem()
		if err := readValue(r, kh, 0, ts.key, kv); err != nil {
			return wrapf(err, "tag %d: entry %d key", tag, i)
		}
		vh, err := r.ReadHead()
		if err != nil {
			return wrapf(err, "tag %d: entry %d value head", tag, i)
		}
		vv := reflect.New(ts.elem.goTyp).Elem()
		if err := readValue(r, vh, 1, ts.elem, vv); err != nil {
			return wrapf(err, "tag %d: entry %d value", tag, i)
		}
		m.SetMapIndex(kv, vv) // later entries shadow earlier (spec §4.3)
	}
	fv.Set(m)
	return nil
}

// writeValue encodes fv at tag, dispatching on ts.kind (spec
// §4.2/§4.3). Struct-typed values are always wrapped (spec §4.4: only
// a record's own top-level emission omits the Struct framing).
func writeValue(b *Buffer, tag uint8, ts *typeSpec, fv reflect.Value) {
	switch ts.kind {
	case kindBool:
		b.PutBool(tag, fv.Bool())
	case kindByte:
		b.PutByte(tag, uint8(fv.Uint()))
	case kindInt16:
		b.PutInt16(tag, int16(fv.Int()))
	case kindInt32:
		b.PutInt32(tag, int32(fv.Int()))
	case kindInt64:
		b.PutInt64(tag, fv.Int())
	case kindFloat32:
		b.PutFloat32(tag, float32(fv.Float()))
	case kindFloat64:
		b.PutFloat64(tag, fv.Float())
	case kindString:
		b.PutString(tag, fv.String())
	case kindBytes:
		b.PutSimpleList(tag, fv.Bytes())
	case kindList:
		writeList(b, tag, ts, fv)
	case kindMap:
		writeMap(b, tag, ts, fv)
	case kindStruct:
		writeStructField(b, tag, ts, fv)
	}
}

func writeList(b *Buffer, tag uint8, ts *typeSpec, fv reflect.Value) {
	n := fv.Len()
	b.PutListHeader(tag, n)
	for i := 0; i < n; i++ {
		writeValue(b, 0, ts.elem, fv.Index(i))
	}
}

func writeMap(b *Buffer, tag uint8, ts *typeSpec, fv reflect.Value) {
	keys := fv.MapKeys()
	b.PutMapHeader(tag, len(keys))
	for _, k := range keys {
		writeValue(b, 0, ts.key, k)
		writeValue(b, 1, ts.elem, fv.MapIndex(k))
	}
}

func writeStructField(b *Buffer, tag uint8, ts *typeSpec, fv reflect.Value) {
	target := fv
	if ts.ptr {
		if target.IsNil() {
			b.PutHead(WireStructBegin, tag)
			b.PutHead(WireStructEnd, tag)
			return
		}
		target = target.Elem()
	}
	b.PutHead(WireStructBegin, tag)
	writeStructBody(b, ts.strct, target)
	b.PutHead(WireStructEnd, tag)
}

// writeStructBody emits rv's bound fields in ascending tag order with
// no surrounding frame; used both for nested (wrapped by the caller)
// and top-level (unwrapped) emission (spec §4.4).
func writeStructBody(b *Buffer, sp *structSpec, rv reflect.Value) {
	for i := range sp.fields {
		fs := &sp.fields[i]
		writeValue(b, fs.tag, &fs.typeSpec, rv.FieldByIndex(fs.index))
	}
}
