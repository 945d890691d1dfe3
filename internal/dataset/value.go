package dataset

import (
	"encoding/json"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindBool
)

// Value is a single cell of a Dataset row. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	b    bool
}

func Null() Value            { return Value{} }
func String(s string) Value  { return Value{kind: KindString, s: s} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether the value is a string.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Int64 returns the integer payload and whether the value is an integer.
func (v Value) Int64() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Boolean returns the bool payload and whether the value is a bool.
func (v Value) Boolean() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Text renders the value as plain text. Null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	}
	return []byte("null"), nil
}
