// Package protocol implements the serial-vis command encoding
package protocol

// Version represents the serialvis encoder version
const Version = "0.1.0"

// Protocol constants
const (
	MessageMax = 512 // Maximum encoded frame size, including the trailing newline

	// Wire delimiters
	SeparatorArg   = ':' // Between opcode and arguments, and between top-level arguments
	SeparatorGroup = ',' // Between arguments inside a [...] group
	FrameEnd       = '\n'
)

// reserved reports whether b may not appear inside an opcode or string field
func reserved(b byte) bool {
	return b == SeparatorArg || b == SeparatorGroup || b == FrameEnd
}
