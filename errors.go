package jce

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel targets for errors.Is. Each concrete error type below wraps
// one of these so callers can test the category without caring about
// the field/tag context carried alongside it.
var (
	ErrTypeMismatch = errors.New("jce: type mismatch")
	ErrTagMissing   = errors.New("jce: tag missing")
	ErrLengthInvalid = errors.New("jce: invalid length")
	ErrUTF8         = errors.New("jce: invalid utf-8")
	ErrUnknownType  = errors.New("jce: unknown wire type")
	ErrTruncated    = errors.New("jce: truncated buffer")
)

// TypeMismatchError reports that a head's wire type cannot be coerced
// to the expected logical type (spec §7 TypeMismatch).
type TypeMismatchError struct {
	Tag      uint8
	Expected WireType
	Actual   WireType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("jce: tag %d: type mismatch: expected %s, got %s", e.Tag, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// TagMissingError reports that a strict-mode scan exhausted the struct
// body without finding the requested tag (spec §7 TagMissing).
type TagMissingError struct {
	Tag uint8
}

func (e *TagMissingError) Error() string {
	return fmt.Sprintf("jce: tag %d not found", e.Tag)
}

func (e *TagMissingError) Is(target error) bool { return target == ErrTagMissing }

// LengthInvalidError reports a string or container head carrying a
// negative or implausibly large length (spec §7 LengthInvalid).
type LengthInvalidError struct {
	Type   WireType
	Length int64
}

func (e *LengthInvalidError) Error() string {
	return fmt.Sprintf("jce: invalid length %d for %s", e.Length, e.Type)
}

func (e *LengthInvalidError) Is(target error) bool { return target == ErrLengthInvalid }

// UTF8Error reports a String payload that failed UTF-8 validation
// (spec §7 Utf8).
type UTF8Error struct {
	Tag uint8
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("jce: tag %d: invalid utf-8 string payload", e.Tag)
}

func (e *UTF8Error) Is(target error) bool { return target == ErrUTF8 }

// UnknownTypeError reports a reserved/unknown wire type code that
// could not be decoded or skipped (spec §7 UnknownType).
type UnknownTypeError struct {
	Code uint8
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("jce: unknown wire type code %d", e.Code)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// TruncatedError reports that the buffer ended mid-head or
// mid-payload (spec §7 Truncated).
type TruncatedError struct {
	Want int
	Have int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("jce: truncated buffer: need %d bytes, have %d", e.Want, e.Have)
}

func (e *TruncatedError) Is(target error) bool { return target == ErrTruncated }

// wrapf annotates err with call-site context using pkg/errors, the way
// moby-moby's own debug and test helpers wrap sentinel errors without
// discarding them from errors.Is/As.
func wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrapf(err, format, args...)
}
