package poolstat

import "fmt"

// ConnectionError indicates the control channel could not be reached: the
// server is not running, the locator is wrong, or the query could not
// complete. It is never retried internally.
type ConnectionError struct {
	Locator Locator
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("control channel unreachable at %s: %v", e.Locator, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ParseError indicates a response was received but could not be decoded
// into a status snapshot. No partial rendering is attempted.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed status response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
