package schema

import (
	"errors"
	"fmt"
)

// ErrNonFiniteCurve is returned when a curve value leaves the finite range.
var ErrNonFiniteCurve = errors.New("curve produced a non-finite value")

// RemoteIndexError reports a failed page fetch from the archive index.
// StatusCode is 0 when no response arrived; Err then holds the transport failure.
type RemoteIndexError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *RemoteIndexError) Error() string {
	if e.StatusCode == 0 && e.Err != nil {
		return fmt.Sprintf("CDX API request for `%s` failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("CDX API returned `%d` status code for `%s`", e.StatusCode, e.URL)
}

func (e *RemoteIndexError) Unwrap() error { return e.Err }

// EmptyIndexError reports that the index yielded no capture events at all.
type EmptyIndexError struct {
	URL string
}

func (e *EmptyIndexError) Error() string {
	return fmt.Sprintf("Empty or malformed CDX API response for `%s`", e.URL)
}

// MalformedLineError describes a line that did not parse into three fields.
type MalformedLineError struct {
	Line   string
	Fields int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed index line with %d fields: %q", e.Fields, e.Line)
}
