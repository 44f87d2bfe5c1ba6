package protocol

import (
	"fmt"
	"io"
)

// Frame is one command: an opcode and the values its descriptor consumes
type Frame struct {
	Opcode     string
	Descriptor Descriptor
	Values     []Value
}

// AppendTo appends the encoded frame to dst
func (f Frame) AppendTo(dst []byte) ([]byte, error) {
	return AppendFrame(dst, f.Opcode, f.Descriptor, f.Values...)
}

// EncodeFrame writes opcode, separators, fields and the terminating newline
// to output. Nothing is written when the opcode or values are rejected.
func EncodeFrame(output OutputBuffer, opcode string, d Descriptor, values []Value) error {
	if err := CheckOpcode(opcode); err != nil {
		return err
	}
	if err := d.Check(values); err != nil {
		return err
	}

	output.OutputString(opcode)

	var sep [1]byte
	err := walk(d, values, func(ev Event) error {
		switch {
		case ev.Kind == EventSeparator:
			sep[0] = ev.Sep
			output.Output(sep[:])
		case ev.Hex != nil:
			output.Output(ev.Hex)
		default:
			output.OutputString(ev.Text)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sep[0] = FrameEnd
	output.Output(sep[:])
	return nil
}

// AppendFrame appends one encoded frame to dst.
// On error dst is returned unchanged.
func AppendFrame(dst []byte, opcode string, d Descriptor, values ...Value) ([]byte, error) {
	out := NewSliceOutput(dst)
	if err := EncodeFrame(out, opcode, d, values); err != nil {
		return dst, err
	}
	return out.Result(), nil
}

// Emitter encodes frames into a reusable scratch buffer and hands each
// complete frame to the sink in a single write.
// An Emitter is not safe for concurrent use.
type Emitter struct {
	sink    io.Writer
	scratch ScratchOutput
}

// NewEmitter creates an Emitter writing to sink
func NewEmitter(sink io.Writer) *Emitter {
	return &Emitter{sink: sink}
}

// Emit encodes and writes one frame.
// Contract violations and oversized frames are reported before the sink
// sees any byte; write failures come back as *SinkError.
func (e *Emitter) Emit(opcode string, d Descriptor, values ...Value) error {
	e.scratch.Reset()

	if err := EncodeFrame(&e.scratch, opcode, d, values); err != nil {
		return err
	}
	if e.scratch.Overflowed() {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrFrameTooLong, opcode, MessageMax)
	}

	frame := e.scratch.Result()
	n, err := e.sink.Write(frame)
	if err == nil && n != len(frame) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &SinkError{Written: n, Total: len(frame), Err: err}
	}
	return nil
}

// EmitFormat parses format and emits the frame
func (e *Emitter) EmitFormat(opcode string, format string, values ...Value) error {
	d, err := ParseDescriptor(format)
	if err != nil {
		return err
	}
	return e.Emit(opcode, d, values...)
}

// EmitFrame emits a prepared Frame
func (e *Emitter) EmitFrame(f Frame) error {
	return e.Emit(f.Opcode, f.Descriptor, f.Values...)
}

// CheckOpcode rejects empty opcodes and opcodes containing delimiter bytes
func CheckOpcode(opcode string) error {
	if opcode == "" {
		return fmt.Errorf("%w: empty", ErrInvalidOpcode)
	}
	for i := 0; i < len(opcode); i++ {
		if reserved(opcode[i]) {
			return fmt.Errorf("%w: %q has %q at %d", ErrInvalidOpcode, opcode, opcode[i], i)
		}
	}
	return nil
}
