package directory

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every *TransportError through errors.Is.
	ErrTransport = errors.New("directory service request failed")
	// ErrDecode is returned when a response body is not the JSON the client expects.
	ErrDecode = errors.New("failed to decode directory payload")
	// ErrAbsent is returned by LoadForEdit when the service answers with something other than a record.
	ErrAbsent = errors.New("staff record is absent")
)

// TransportError reports a request to the directory service that did not succeed,
// either because the call itself failed or because the service answered with a non-2xx status.
type TransportError struct {
	Op         string // Op names the client operation, e.g. "get_person"
	Method     string // HTTP method of the request
	URL        string // Full request URL
	StatusCode int    // StatusCode is zero when no response was received
	Body       string // Body holds the response text for diagnostics
	Err        error  // Err is the underlying network or read failure, if any
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err == nil:
		return fmt.Sprintf("%s: HTTP error on %s %s, status: %d", e.Op, e.Method, e.URL, e.StatusCode)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: failed to read response of %s %s (status %d): %v",
			e.Op, e.Method, e.URL, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports ErrTransport as a match so callers can test for the category without errors.As.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
