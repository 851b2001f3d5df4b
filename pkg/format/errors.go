package format

import (
	"errors"
	"fmt"
)

// Error kinds. Every *ParseError unwraps to exactly one of the reader kinds.
var (
	ErrMalformedLine         = errors.New("malformed line")
	ErrUnrecognizedDirective = errors.New("unrecognized directive")
	ErrNumericFormat         = errors.New("invalid number")
	ErrMalformedDescriptor   = errors.New("malformed vertex descriptor")
	ErrUnsupportedFormat     = errors.New("unsupported format")
)

// ParseError is a reader failure tied to a 1-based input line.
type ParseError struct {
	Line    int
	Token   string // offending token, empty when the whole line is at fault
	Kind    error
	Message string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("line %d: %s: %s (token %q)", e.Line, e.Kind, e.Message, e.Token)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
}

// Unwrap returns the error kind so errors.Is works against the sentinels.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

func lineError(line int, kind error, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func tokenError(line int, token string, kind error, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Token: token, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
