package headless

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPedestrians is returned by position helpers when a snapshot has
	// no active pedestrians to average over.
	ErrNoPedestrians = errors.New("no active pedestrians in snapshot")
)

// ServerError is a non-2xx response from the headless API. The body is
// included (truncated) because the server reports most problems as plain
// text in the response body.
type ServerError struct {
	Status   int
	Endpoint string
	Body     string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Status, e.Body)
}

// ShapeError is a response that came back 2xx but does not match the
// documented wire shape: unparseable JSON, a missing required field, or a
// mistyped value. The harness never guesses around these; a malformed
// payload aborts the run.
type ShapeError struct {
	Endpoint string
	Err      error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected payload from %s: %v", e.Endpoint, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

func shapeErrorf(endpoint, format string, args ...any) *ShapeError {
	return &ShapeError{Endpoint: endpoint, Err: fmt.Errorf(format, args...)}
}

func errMissingField(object, field string) error {
	return fmt.Errorf("%s: missing %q", object, field)
}
