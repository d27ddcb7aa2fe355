package jce

import (
	"fmt"
	"strings"
)

// The code in this file is not written with the same performance
// concerns as the rest of the codec. It exists for tooling: the
// inspector CLI's human-readable tree dump of a decoded Value.

// Sprint renders v as an indented tag/type/value tree, in tag order.
func Sprint(v Value) string {
	var sb strings.Builder
	sprintValue(&sb, v, 0)
	return sb.String()
}

// Print writes Sprint's rendering of v to stdout via fmt.Print.
func Print(v Value) {
	fmt.Print(Sprint(v))
}

func sprintValue(sb *strings.Builder, v Value, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v.Kind() {
	case WireByte, WireZeroByte:
		n, _ := v.Byte()
		fmt.Fprintf(sb, "%sByte = %d\n", indent, n)
	case WireInt16:
		n, _ := v.Int16()
		fmt.Fprintf(sb, "%sInt16 = %d\n", indent, n)
	case WireInt32:
		n, _ := v.Int32()
		fmt.Fprintf(sb, "%sInt32 = %d\n", indent, n)
	case WireInt64:
		n, _ := v.Int64()
		fmt.Fprintf(sb, "%sInt64 = %d\n", indent, n)
	case WireFloat32:
		f, _ := v.Float32()
		fmt.Fprintf(sb, "%sFloat32 = %v\n", indent, f)
	case WireFloat64:
		f, _ := v.Float64()
		fmt.Fprintf(sb, "%sFloat64 = %v\n", indent, f)
	case WireShortString, WireLongString:
		s, _ := v.Str()
		fmt.Fprintf(sb, "%sString = %q\n", indent, s)
	case WireSimpleList:
		b, _ := v.Bytes()
		fmt.Fprintf(sb, "%sBytes[%d] = % x\n", indent, len(b), b)
	case WireList:
		elems, _ := v.List()
		fmt.Fprintf(sb, "%sList[%d]:\n", indent, len(elems))
		for i, e := range elems {
			fmt.Fprintf(sb, "%s  [%d]:\n", indent, i)
			sprintValue(sb, e, depth+2)
		}
	case WireMap:
		pairs, _ := v.Map()
		fmt.Fprintf(sb, "%sMap[%d]:\n", indent, len(pairs))
		for _, p := range pairs {
			fmt.Fprintf(sb, "%s  key:\n", indent)
			sprintValue(sb, p.Key, depth+2)
			fmt.Fprintf(sb, "%s  value:\n", indent)
			sprintValue(sb, p.Value, depth+2)
		}
	case WireStructBegin:
		s, _ := v.Struct()
		fmt.Fprintf(sb, "%sStruct:\n", indent)
		for _, tag := range s.Tags() {
			fv, _ := s.Get(tag)
			fmt.Fprintf(sb, "%s  [%d]:\n", indent, tag)
			sprintValue(sb, fv, depth+2)
		}
	default:
		fmt.Fprintf(sb, "%s<unknown wire type %d>\n", indent, uint8(v.Kind()))
	}
}
