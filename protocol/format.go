package protocol

import "fmt"

// Token is one character of a format descriptor
type Token byte

const (
	TokenString     Token = 's'
	TokenInt16      Token = 'd'
	TokenInt32      Token = 'l'
	TokenInt64      Token = 'L'
	TokenFloat32    Token = 'f'
	TokenFloat64    Token = 'F'
	TokenGroupOpen  Token = '['
	TokenGroupClose Token = ']'
)

// Kind returns the value kind consumed by a field token, or KindInvalid
// for structural and unknown tokens
func (t Token) Kind() Kind {
	switch t {
	case TokenString:
		return KindString
	case TokenInt16:
		return KindInt16
	case TokenInt32:
		return KindInt32
	case TokenInt64:
		return KindInt64
	case TokenFloat32:
		return KindFloat32
	case TokenFloat64:
		return KindFloat64
	default:
		return KindInvalid
	}
}

// Descriptor is a validated format string such as "s[ff]ds".
// The zero Descriptor is the empty format and is valid.
type Descriptor struct {
	format string
	fields []Kind
}

// ParseDescriptor validates a format string.
// Groups may not nest, may not be empty and must be closed.
func ParseDescriptor(format string) (Descriptor, error) {
	var fields []Kind
	open := false

	for i := 0; i < len(format); i++ {
		tok := Token(format[i])
		switch tok {
		case TokenGroupOpen:
			if open {
				return Descriptor{}, fmt.Errorf("%w at %d in %q", ErrNestedGroup, i, format)
			}
			open = true
		case TokenGroupClose:
			if !open {
				return Descriptor{}, fmt.Errorf("%w at %d in %q", ErrUnmatchedClose, i, format)
			}
			if Token(format[i-1]) == TokenGroupOpen {
				return Descriptor{}, fmt.Errorf("%w at %d in %q", ErrEmptyGroup, i, format)
			}
			open = false
		default:
			kind := tok.Kind()
			if kind == KindInvalid {
				return Descriptor{}, fmt.Errorf("%w %q at %d in %q", ErrUnknownToken, format[i], i, format)
			}
			fields = append(fields, kind)
		}
	}

	if open {
		return Descriptor{}, fmt.Errorf("%w in %q", ErrUnclosedGroup, format)
	}

	return Descriptor{format: format, fields: fields}, nil
}

// MustParseDescriptor is ParseDescriptor for formats known at compile time
func MustParseDescriptor(format string) Descriptor {
	d, err := ParseDescriptor(format)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the original format string
func (d Descriptor) String() string {
	return d.format
}

// NumFields returns the number of values the descriptor consumes
func (d Descriptor) NumFields() int {
	return len(d.fields)
}

// Fields returns the value kinds in consumption order
func (d Descriptor) Fields() []Kind {
	out := make([]Kind, len(d.fields))
	copy(out, d.fields)
	return out
}

// Check verifies that values match the descriptor in count and type and
// that no string value carries a delimiter byte
func (d Descriptor) Check(values []Value) error {
	if len(values) != len(d.fields) {
		return fmt.Errorf("%w: %q takes %d values, got %d", ErrValueCount, d.format, len(d.fields), len(values))
	}
	for i, want := range d.fields {
		v := values[i]
		if v.kind != want {
			return fmt.Errorf("%w: value %d is %s, %q wants %s", ErrValueKind, i, v.kind, d.format, want)
		}
		if want == KindString {
			for j := 0; j < len(v.str); j++ {
				if reserved(v.str[j]) {
					return fmt.Errorf("%w: value %d has %q at %d", ErrReservedByte, i, v.str[j], j)
				}
			}
		}
	}
	return nil
}

// EventKind distinguishes interpreter output
type EventKind uint8

const (
	EventSeparator EventKind = iota + 1
	EventField
)

// Event is one step of frame emission.
// For string fields Text holds the raw value; for numerics Hex holds the
// encoded digits and is only valid until the callback returns.
type Event struct {
	Kind  EventKind
	Sep   byte
	Token Token
	Text  string
	Hex   []byte
}

// Walk checks values against d and then calls yield for every separator
// and field of the frame body, in wire order. A yield error stops the walk.
//
// A separator precedes each descriptor position unless the previous
// position opened a group or the current one closes it. The first position
// always gets one, and an empty descriptor yields a single ':'.
func Walk(d Descriptor, values []Value, yield func(Event) error) error {
	if err := d.Check(values); err != nil {
		return err
	}
	return walk(d, values, yield)
}

// walk assumes values already passed d.Check
func walk(d Descriptor, values []Value, yield func(Event) error) error {
	if len(d.format) == 0 {
		return yield(Event{Kind: EventSeparator, Sep: SeparatorArg})
	}

	var hex [16]byte
	sep := byte(SeparatorArg)
	prev := Token(0)
	next := 0

	for i := 0; i < len(d.format); i++ {
		tok := Token(d.format[i])

		if prev != TokenGroupOpen && tok != TokenGroupClose {
			if err := yield(Event{Kind: EventSeparator, Sep: sep}); err != nil {
				return err
			}
		}
		prev = tok

		switch tok {
		case TokenGroupOpen:
			sep = SeparatorGroup
			continue
		case TokenGroupClose:
			sep = SeparatorArg
			continue
		}

		v := values[next]
		next++

		ev := Event{Kind: EventField, Token: tok}
		if v.kind == KindString {
			ev.Text = v.str
		} else {
			ev.Hex = AppendHex(hex[:0], v.bits, v.kind.Width())
		}
		if err := yield(ev); err != nil {
			return err
		}
	}
	return nil
}
