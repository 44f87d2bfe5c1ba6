package protocol

// OutputBuffer collects the bytes of one frame before it reaches the sink
type OutputBuffer interface {
	// Output appends data to the buffer
	Output(data []byte)

	// OutputString appends s without converting it to a byte slice
	OutputString(s string)

	// CurPosition returns the current write position
	CurPosition() int

	// DataSince returns data from a specific position to current
	DataSince(pos int) []byte
}

// ScratchOutput implements OutputBuffer using a fixed-size scratch buffer.
// Writes past the end are dropped and recorded in Overflowed.
type ScratchOutput struct {
	buf      [MessageMax]byte
	pos      int
	overflow bool
}

// NewScratchOutput creates a new ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{pos: 0}
}

func (s *ScratchOutput) Output(data []byte) {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
	if n < len(data) {
		s.overflow = true
	}
}

func (s *ScratchOutput) OutputString(str string) {
	n := copy(s.buf[s.pos:], str)
	s.pos += n
	if n < len(str) {
		s.overflow = true
	}
}

// OutputByte appends a single byte
func (s *ScratchOutput) OutputByte(b byte) {
	if s.pos >= len(s.buf) {
		s.overflow = true
		return
	}
	s.buf[s.pos] = b
	s.pos++
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Overflowed reports whether any write since the last Reset was truncated
func (s *ScratchOutput) Overflowed() bool {
	return s.overflow
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
	s.overflow = false
}

// SliceOutput implements OutputBuffer on a growable slice
type SliceOutput struct {
	buf []byte
}

// NewSliceOutput creates a SliceOutput that appends to dst
func NewSliceOutput(dst []byte) *SliceOutput {
	return &SliceOutput{buf: dst}
}

func (s *SliceOutput) Output(data []byte) {
	s.buf = append(s.buf, data...)
}

func (s *SliceOutput) OutputString(str string) {
	s.buf = append(s.buf, str...)
}

func (s *SliceOutput) CurPosition() int {
	return len(s.buf)
}

func (s *SliceOutput) DataSince(pos int) []byte {
	if pos > len(s.buf) {
		return nil
	}
	return s.buf[pos:]
}

// Result returns the accumulated output data
func (s *SliceOutput) Result() []byte {
	return s.buf
}
