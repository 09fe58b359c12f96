package cmdb

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a response body is not the JSON
// shape the operation returns
var ErrMalformedResponse = errors.New("malformed cmdb response")

// ErrNoTarget is returned when a request resolves to no operation target
var ErrNoTarget = errors.New("cmdb request has no operation target")

const maxErrorBody = 256

// RemoteQueryError reports a non-success response from the CMDB
type RemoteQueryError struct {
	Target     string
	StatusCode int
	Status     string
	Body       string
}

func (e *RemoteQueryError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cmdb query %s failed: %s", e.Target, e.Status)
	}
	return fmt.Sprintf("cmdb query %s failed: %s: %s", e.Target, e.Status, e.Body)
}

func newRemoteQueryError(target string, code int, status string, body []byte) *RemoteQueryError {
	snippet := string(body)
	if len(snippet) > maxErrorBody {
		snippet = snippet[:maxErrorBody] + "..."
	}
	return &RemoteQueryError{
		Target:     target,
		StatusCode: code,
		Status:     status,
		Body:       snippet,
	}
}
