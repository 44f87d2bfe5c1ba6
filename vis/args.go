package vis

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/shlex"

	"serialvis/protocol"
)

var ErrBadArgument = errors.New("vis: bad argument")

// SplitLine splits a console line into words, honoring shell-style quotes
// so string arguments may contain spaces
func SplitLine(line string) ([]string, error) {
	return shlex.Split(line)
}

// ParseArgs converts textual arguments into values matching d.
// Integers accept Go literal prefixes (0x, 0b, 0o).
func ParseArgs(d protocol.Descriptor, args []string) ([]protocol.Value, error) {
	kinds := d.Fields()
	if len(args) != len(kinds) {
		return nil, fmt.Errorf("%w: %q takes %d arguments, got %d", ErrBadArgument, d.String(), len(kinds), len(args))
	}

	values := make([]protocol.Value, len(args))
	for i, arg := range args {
		v, err := parseValue(kinds[i], arg)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d (%s): %v", ErrBadArgument, i+1, kinds[i], err)
		}
		values[i] = v
	}
	return values, nil
}

func parseValue(kind protocol.Kind, arg string) (protocol.Value, error) {
	switch kind {
	case protocol.KindString:
		return protocol.String(arg), nil
	case protocol.KindInt16:
		n, err := strconv.ParseInt(arg, 0, 16)
		return protocol.Int16(int16(n)), err
	case protocol.KindInt32:
		n, err := strconv.ParseInt(arg, 0, 32)
		return protocol.Int32(int32(n)), err
	case protocol.KindInt64:
		n, err := strconv.ParseInt(arg, 0, 64)
		return protocol.Int64(n), err
	case protocol.KindFloat32:
		f, err := strconv.ParseFloat(arg, 32)
		return protocol.Float32(float32(f)), err
	case protocol.KindFloat64:
		f, err := strconv.ParseFloat(arg, 64)
		return protocol.Float64(f), err
	default:
		return protocol.Value{}, fmt.Errorf("unsupported kind %s", kind)
	}
}
