package protocol

import (
	"math"
	"strings"
	"testing"
)

func TestAppendHexKnownValues(t *testing.T) {
	testCases := []struct {
		value    Value
		expected string
	}{
		{Float32(100), "42C80000"},
		{Float32(200), "43480000"},
		{Float32(50), "42480000"},
		{Float32(1), "3F800000"},
		{Float64(1), "3FF0000000000000"},
		{Float64(-2.5), "C004000000000000"},
		{Int16(0), "0000"},
		{Int16(255), "00FF"},
		{Int16(-1), "FFFF"},
		{Int16(math.MinInt16), "8000"},
		{Int32(-2), "FFFFFFFE"},
		{Int32(0x12345678), "12345678"},
		{Int64(math.MinInt64), "8000000000000000"},
		{Int64(0x0123456789ABCDEF), "0123456789ABCDEF"},
	}

	for _, tc := range testCases {
		got, err := EncodeValue(tc.value)
		if err != nil {
			t.Errorf("EncodeValue(%s) failed: %v", tc.value.Kind(), err)
			continue
		}
		if got != tc.expected {
			t.Errorf("%s: expected %s, got %s", tc.value.Kind(), tc.expected, got)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	testCases := []uint64{
		0,
		1,
		0x7F,
		0x8000,
		0xFFFF,
		0xDEADBEEF,
		0xFFFFFFFF,
		0x8000000000000000,
		0xFFFFFFFFFFFFFFFF,
		math.Float64bits(math.Pi),
		math.Float64bits(math.Inf(-1)),
	}

	for _, width := range []int{2, 4, 8} {
		mask := uint64(math.MaxUint64)
		if width < 8 {
			mask = 1<<(uint(width)*8) - 1
		}

		for _, bits := range testCases {
			encoded, err := EncodeHex(bits, width)
			if err != nil {
				t.Fatalf("EncodeHex(%X, %d) failed: %v", bits, width, err)
			}

			if len(encoded) != 2*width {
				t.Errorf("width %d: expected %d digits, got %q", width, 2*width, encoded)
			}
			if strings.Trim(encoded, "0123456789ABCDEF") != "" {
				t.Errorf("width %d: non-hex characters in %q", width, encoded)
			}

			decoded, err := DecodeHex(encoded)
			if err != nil {
				t.Errorf("DecodeHex(%q) failed: %v", encoded, err)
				continue
			}
			if decoded != bits&mask {
				t.Errorf("width %d: round trip of %X gave %X", width, bits&mask, decoded)
			}
		}
	}
}

func TestHexFloatBitsSurviveNaN(t *testing.T) {
	nan := math.Float32frombits(0x7FC00001)
	got, err := EncodeValue(Float32(nan))
	if err != nil {
		t.Fatal(err)
	}
	if got != "7FC00001" {
		t.Errorf("expected NaN payload 7FC00001, got %s", got)
	}
}

func TestEncodeHexInvalidWidth(t *testing.T) {
	for _, width := range []int{0, 1, 3, 16} {
		if _, err := EncodeHex(1, width); err != ErrInvalidHexWidth {
			t.Errorf("width %d: expected ErrInvalidHexWidth, got %v", width, err)
		}
	}

	if _, err := EncodeValue(String("x")); err == nil {
		t.Error("Expected error encoding a string as hex")
	}
}

func TestDecodeHexInvalid(t *testing.T) {
	testCases := []string{
		"",
		"F",
		"FFF",
		"00ff",
		"00G0",
		"0123456789ABCDEF01",
	}

	for _, s := range testCases {
		if _, err := DecodeHex(s); err != ErrInvalidHex {
			t.Errorf("DecodeHex(%q): expected ErrInvalidHex, got %v", s, err)
		}
	}
}
