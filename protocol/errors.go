package protocol

import (
	"errors"
	"fmt"
)

// ErrContractViolation is the root of every caller error: a bad descriptor,
// values that do not match it, or reserved bytes in the payload.
var ErrContractViolation = errors.New("protocol: contract violation")

var (
	ErrUnknownToken    = fmt.Errorf("%w: unknown format token", ErrContractViolation)
	ErrNestedGroup     = fmt.Errorf("%w: nested group", ErrContractViolation)
	ErrUnmatchedClose  = fmt.Errorf("%w: unmatched ']'", ErrContractViolation)
	ErrUnclosedGroup   = fmt.Errorf("%w: unclosed '['", ErrContractViolation)
	ErrEmptyGroup      = fmt.Errorf("%w: empty group", ErrContractViolation)
	ErrValueCount      = fmt.Errorf("%w: value count mismatch", ErrContractViolation)
	ErrValueKind       = fmt.Errorf("%w: value type mismatch", ErrContractViolation)
	ErrReservedByte    = fmt.Errorf("%w: reserved byte in string", ErrContractViolation)
	ErrInvalidOpcode   = fmt.Errorf("%w: invalid opcode", ErrContractViolation)
	ErrInvalidHexWidth = fmt.Errorf("%w: invalid hex width", ErrContractViolation)
)

var (
	ErrFrameTooLong = errors.New("protocol: frame too long")
	ErrInvalidHex   = errors.New("protocol: invalid hex digits")
)

// SinkError reports a failed write to the output sink
type SinkError struct {
	Written int // Bytes accepted by the sink before the failure
	Total   int // Frame length
	Err     error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("protocol: sink write failed after %d/%d bytes: %v", e.Written, e.Total, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
