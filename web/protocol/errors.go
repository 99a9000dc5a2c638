package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRequest 连接上没有读到任何有效字节，不需要响应
	ErrEmptyRequest = errors.New("empty request")

	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrInvalidEncoding      = errors.New("invalid utf-8 encoding")
	ErrInvalidContentLength = errors.New("invalid content length")
)

// ParseError is returned for any request that cannot be turned into a Request.
// Callers treat it like an empty request: the connection is closed unanswered.
type ParseError struct {
	Field string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse request failed. field=%s: %s", e.Field, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

func newParseError(field string, cause error) *ParseError {
	return &ParseError{Field: field, Cause: cause}
}
