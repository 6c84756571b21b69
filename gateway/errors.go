package gateway

import (
	"errors"
	"fmt"
)

// ErrConnection wraps every transport-level failure (DNS, refused
// connection, timeout) so flows can tell "server said no" apart from
// "server unreachable".
var ErrConnection = errors.New("gateway: connection error")

// APIError is an HTTP error response from the backend. Message carries
// the body's "error" field when present, otherwise a generic HTTP
// status description.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: HTTP %d: %s", e.Status, e.Message)
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
