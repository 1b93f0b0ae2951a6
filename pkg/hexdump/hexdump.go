// Package hexdump converts between sniffer hex-dump lines and raw bytes.
//
// A dump line holds up to BytesPerLine two-digit hex tokens separated by single
// spaces, padded to a fixed-width field and optionally followed by an ASCII
// rendering of the same bytes:
//
//	86 98 86 98 86 60 E6 78 E6 80                   .....`.x..
//
// Only the fixed-width field is decoded; the ASCII rendering is ignored.
package hexdump

import (
	"encoding/hex"
	"fmt"
	"iter"
	"strings"
)

// DefaultBytesPerLine is the dump width used by the sniffer unless told otherwise.
const DefaultBytesPerLine = 16

// FieldWidth returns the width of the hex field for a dump of n bytes per line.
func FieldWidth(n int) int {
	return n*3 - 1
}

// DecodeError reports a token in the hex field that is not two hex digits.
type DecodeError struct {
	// Token is the offending token.
	Token string

	// Column is the 0-based offset of the token in the line.
	Column int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid hex byte %q at column %d", e.Token, e.Column)
}

// Decoder decodes dump lines of a fixed width.
type Decoder struct {
	bytesPerLine int
}

// NewDecoder creates a decoder for dumps with n bytes per line.
// Non-positive values select DefaultBytesPerLine.
func NewDecoder(n int) *Decoder {
	if n <= 0 {
		n = DefaultBytesPerLine
	}
	return &Decoder{bytesPerLine: n}
}

// BytesPerLine returns the dump width the decoder was built for.
func (d *Decoder) BytesPerLine() int {
	return d.bytesPerLine
}

// Decode returns the bytes encoded in the hex field of line.
// A malformed token rejects the whole line with a *DecodeError.
func (d *Decoder) Decode(line string) ([]byte, error) {
	field := line
	if w := FieldWidth(d.bytesPerLine); len(field) > w {
		field = field[:w]
	}

	out := make([]byte, 0, d.bytesPerLine)
	i := 0
	for i < len(field) {
		if field[i] == ' ' || field[i] == '\t' {
			i++
			continue
		}
		start := i
		for i < len(field) && field[i] != ' ' && field[i] != '\t' {
			i++
		}
		tok := field[start:i]
		if len(tok) != 2 {
			return nil, &DecodeError{Token: tok, Column: start}
		}
		b, err := hex.DecodeString(tok)
		if err != nil {
			return nil, &DecodeError{Token: tok, Column: start}
		}
		out = append(out, b[0])
	}
	return out, nil
}

// Encode renders b as uppercase hex bytes separated by single spaces.
func Encode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b)*3 - 1)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", v)
	}
	return sb.String()
}

// Chunks yields successive n-sized chunks of b. The last chunk may be shorter.
func Chunks(b []byte, n int) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		if n <= 0 {
			n = DefaultBytesPerLine
		}
		for i := 0; i < len(b); i += n {
			end := min(i+n, len(b))
			if !yield(b[i:end]) {
				return
			}
		}
	}
}

// Format renders b the way the sniffer dumps it: one line of encoded bytes per
// bytesPerLine-sized chunk.
func Format(b []byte, bytesPerLine int) []string {
	var lines []string
	for chunk := range Chunks(b, bytesPerLine) {
		lines = append(lines, Encode(chunk))
	}
	return lines
}
