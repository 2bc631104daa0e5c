package types

import (
	"fmt"
)

// =============================================================================
// ERROR SET
// =============================================================================

// Three error families cross the package boundary: encoding errors
// (programmer errors surfaced while building a command), parse errors
// (malformed response bytes), and server errors (a non-zero result code
// passed through unchanged). All are non-retryable at this layer.

// EncodingError reports a programmer error detected while building a
// command: illegal operation mixes, oversized names, unpackable values.
type EncodingError struct {
	Message string
	Cause   error
}

func (e *EncodingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("encoding: %s: %v", e.Message, e.Cause)
	}
	return "encoding: " + e.Message
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// NewEncodingError creates a new EncodingError.
func NewEncodingError(message string) *EncodingError {
	return &EncodingError{Message: message}
}

// WrapEncodingError creates an EncodingError around a cause.
func WrapEncodingError(message string, cause error) *EncodingError {
	return &EncodingError{Message: message, Cause: cause}
}

// ParseError reports malformed response bytes: a bad frame, an unknown
// particle type, a length mismatch.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "parse: " + e.Message
}

// NewParseError creates a new ParseError.
func NewParseError(message string) *ParseError {
	return &ParseError{Message: message}
}

// ServerError carries a non-zero server result code. The core does not
// interpret the code beyond its coarse classification.
type ServerError struct {
	Code ResultCode
}

func (e *ServerError) Error() string {
	return "server: " + e.Code.String()
}

// NewServerError creates a new ServerError.
func NewServerError(code ResultCode) *ServerError {
	return &ServerError{Code: code}
}
