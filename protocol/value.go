package protocol

import "math"

// Kind identifies the type carried by a Value
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Width returns the encoded size in bytes for numeric kinds, 0 for strings
func (k Kind) Width() int {
	switch k {
	case KindInt16:
		return 2
	case KindInt32, KindFloat32:
		return 4
	case KindInt64, KindFloat64:
		return 8
	default:
		return 0
	}
}

// Value is a single typed command argument.
// Numerics are stored as their raw bit pattern; the string is borrowed
// from the caller and only read during encoding.
type Value struct {
	kind Kind
	bits uint64
	str  string
}

// String wraps a string argument (format token 's')
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int16 wraps a 16-bit integer argument (format token 'd')
func Int16(v int16) Value {
	return Value{kind: KindInt16, bits: uint64(uint16(v))}
}

// Int32 wraps a 32-bit integer argument (format token 'l')
func Int32(v int32) Value {
	return Value{kind: KindInt32, bits: uint64(uint32(v))}
}

// Int64 wraps a 64-bit integer argument (format token 'L')
func Int64(v int64) Value {
	return Value{kind: KindInt64, bits: uint64(v)}
}

// Float32 wraps a single precision argument (format token 'f')
func Float32(v float32) Value {
	return Value{kind: KindFloat32, bits: uint64(math.Float32bits(v))}
}

// Float64 wraps a double precision argument (format token 'F')
func Float64(v float64) Value {
	return Value{kind: KindFloat64, bits: math.Float64bits(v)}
}

// Kind returns the value's type tag
func (v Value) Kind() Kind {
	return v.kind
}

// Bits returns the raw bit pattern of a numeric value, zero-extended to 64 bits
func (v Value) Bits() uint64 {
	return v.bits
}

// Str returns the string payload, or "" for numeric values
func (v Value) Str() string {
	return v.str
}
