package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// recordingSink counts Write calls and can fail or short-write on demand
type recordingSink struct {
	buf    bytes.Buffer
	writes int
	err    error
	limit  int // accept at most limit bytes per write when > 0
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.writes++
	if s.err != nil {
		return 0, s.err
	}
	if s.limit > 0 && len(p) > s.limit {
		s.buf.Write(p[:s.limit])
		return s.limit, nil
	}
	return s.buf.Write(p)
}

func TestEmitFrames(t *testing.T) {
	testCases := []struct {
		opcode   string
		format   string
		values   []Value
		expected string
	}{
		{
			opcode:   "drawcircle",
			format:   "[ff]fs",
			values:   []Value{Float32(100), Float32(200), Float32(50), String("red")},
			expected: "drawcircle:42C80000,43480000:42480000:red\n",
		},
		{
			opcode:   "echo",
			format:   "s",
			values:   []Value{String("hello")},
			expected: "echo:hello\n",
		},
		{
			opcode:   "draw",
			format:   "",
			expected: "draw:\n",
		},
		{
			opcode:   "setoffset",
			format:   "[dd]",
			values:   []Value{Int16(400), Int16(300)},
			expected: "setoffset:0190,012C\n",
		},
		{
			opcode:   "logf",
			format:   "sF",
			values:   []Value{String("counter"), Float64(1)},
			expected: "logf:counter:3FF0000000000000\n",
		},
		{
			opcode:   "mixed",
			format:   "lL",
			values:   []Value{Int32(-1), Int64(16)},
			expected: "mixed:FFFFFFFF:0000000000000010\n",
		},
		{
			opcode:   "echo",
			format:   "s",
			values:   []Value{String("")},
			expected: "echo:\n",
		},
	}

	for _, tc := range testCases {
		sink := &recordingSink{}
		em := NewEmitter(sink)

		if err := em.EmitFormat(tc.opcode, tc.format, tc.values...); err != nil {
			t.Errorf("%s: Emit failed: %v", tc.opcode, err)
			continue
		}
		if got := sink.buf.String(); got != tc.expected {
			t.Errorf("%s: expected %q, got %q", tc.opcode, tc.expected, got)
		}
		if sink.writes != 1 {
			t.Errorf("%s: expected a single batched write, got %d", tc.opcode, sink.writes)
		}
	}
}

func TestEmitReusesScratch(t *testing.T) {
	sink := &recordingSink{}
	em := NewEmitter(sink)

	if err := em.EmitFormat("echo", "s", String("a long first message")); err != nil {
		t.Fatal(err)
	}
	if err := em.EmitFormat("draw", ""); err != nil {
		t.Fatal(err)
	}

	expected := "echo:a long first message\ndraw:\n"
	if got := sink.buf.String(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestEmitContractViolationWritesNothing(t *testing.T) {
	testCases := []struct {
		name   string
		opcode string
		format string
		values []Value
	}{
		{"lone close", "draw", "]", nil},
		{"unclosed", "draw", "[d", []Value{Int16(1)}},
		{"nested", "draw", "[[d]]", []Value{Int16(1)}},
		{"count", "echo", "s", nil},
		{"extra value", "draw", "", []Value{Int16(1)}},
		{"kind", "setscale", "f", []Value{Float64(1)}},
		{"reserved in string", "echo", "s", []Value{String("a:b")}},
		{"empty opcode", "", "", nil},
		{"reserved in opcode", "draw:now", "", nil},
		{"newline in opcode", "draw\n", "", nil},
	}

	for _, tc := range testCases {
		sink := &recordingSink{}
		em := NewEmitter(sink)

		err := em.EmitFormat(tc.opcode, tc.format, tc.values...)
		if !errors.Is(err, ErrContractViolation) {
			t.Errorf("%s: expected contract violation, got %v", tc.name, err)
		}
		if sink.writes != 0 || sink.buf.Len() != 0 {
			t.Errorf("%s: sink saw %d writes (%q)", tc.name, sink.writes, sink.buf.String())
		}
	}
}

func TestEmitFrameTooLong(t *testing.T) {
	sink := &recordingSink{}
	em := NewEmitter(sink)

	err := em.EmitFormat("echo", "s", String(strings.Repeat("x", MessageMax)))
	if !errors.Is(err, ErrFrameTooLong) {
		t.Errorf("Expected ErrFrameTooLong, got %v", err)
	}
	if sink.writes != 0 {
		t.Errorf("Oversized frame reached the sink")
	}

	// exactly MessageMax bytes including the newline still fits
	payload := strings.Repeat("x", MessageMax-len("echo:\n"))
	if err := em.EmitFormat("echo", "s", String(payload)); err != nil {
		t.Errorf("Frame of exactly %d bytes rejected: %v", MessageMax, err)
	}
	if sink.buf.Len() != MessageMax {
		t.Errorf("Expected %d bytes written, got %d", MessageMax, sink.buf.Len())
	}
}

func TestEmitSinkFailure(t *testing.T) {
	boom := errors.New("port gone")
	sink := &recordingSink{err: boom}
	em := NewEmitter(sink)

	err := em.EmitFormat("draw", "")
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped sink error, got %v", err)
	}

	var sinkErr *SinkError
	if !errors.As(err, &sinkErr) {
		t.Fatalf("Expected *SinkError, got %T", err)
	}
	if sinkErr.Written != 0 || sinkErr.Total != len("draw:\n") {
		t.Errorf("Unexpected SinkError counts: %+v", sinkErr)
	}
	if errors.Is(err, ErrContractViolation) {
		t.Error("Sink failure reported as contract violation")
	}
}

func TestEmitShortWrite(t *testing.T) {
	sink := &recordingSink{limit: 3}
	em := NewEmitter(sink)

	err := em.EmitFormat("echo", "s", String("hello"))
	if !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("Expected io.ErrShortWrite, got %v", err)
	}

	var sinkErr *SinkError
	if errors.As(err, &sinkErr) && sinkErr.Written != 3 {
		t.Errorf("Expected 3 bytes written, got %d", sinkErr.Written)
	}
}

func TestAppendFrame(t *testing.T) {
	d := MustParseDescriptor("s[dd]ds")
	buf := []byte("prefix|")

	out, err := AppendFrame(buf, "textp", d, String("hi"), Int16(10), Int16(20), Int16(12), String("blue"))
	if err != nil {
		t.Fatal(err)
	}

	expected := "prefix|textp:hi:000A,0014:000C:blue\n"
	if string(out) != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}

	out, err = AppendFrame(buf, "textp", d, String("hi"))
	if err == nil {
		t.Error("Expected error for missing values")
	}
	if string(out) != "prefix|" {
		t.Errorf("Failed append modified dst: %q", out)
	}
}

func TestFrameAppendTo(t *testing.T) {
	f := Frame{
		Opcode:     "drawline",
		Descriptor: MustParseDescriptor("[ff][ff]s"),
		Values:     []Value{Float32(0), Float32(1), Float32(2), Float32(-2), String("green")},
	}

	out, err := f.AppendTo(nil)
	if err != nil {
		t.Fatal(err)
	}

	expected := "drawline:00000000,3F800000:40000000,C0000000:green\n"
	if string(out) != expected {
		t.Errorf("expected %q, got %q", expected, out)
	}

	sink := &recordingSink{}
	if err := NewEmitter(sink).EmitFrame(f); err != nil {
		t.Fatal(err)
	}
	if sink.buf.String() != expected {
		t.Errorf("EmitFrame: expected %q, got %q", expected, sink.buf.String())
	}
}
