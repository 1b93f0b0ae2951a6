package parser

import (
	"fmt"

	"github.com/ccollicutt/sniflog/pkg/hexdump"
)

// TimestampParseError reports a header whose timestamp field does not match
// TimestampLayout.
type TimestampParseError struct {
	Field string
	Err   error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("parsing timestamp %q: %v", e.Field, e.Err)
}

func (e *TimestampParseError) Unwrap() error {
	return e.Err
}

// UnknownDirectionError reports a header whose direction token is not one of
// the configured labels.
type UnknownDirectionError struct {
	Token string
}

func (e *UnknownDirectionError) Error() string {
	return fmt.Sprintf("unknown direction %q", e.Token)
}

// OrphanDataError reports a data line with no open message to append to.
type OrphanDataError struct{}

func (e *OrphanDataError) Error() string {
	return "discarding data line: no data direction detected so far"
}

// HexDecodeError reports a data line with a malformed hex field.
// The line's bytes are dropped; the open message stays open.
type HexDecodeError struct {
	Err *hexdump.DecodeError
}

func (e *HexDecodeError) Error() string {
	return fmt.Sprintf("decoding data line: %v", e.Err)
}

func (e *HexDecodeError) Unwrap() error {
	return e.Err
}
