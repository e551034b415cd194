package task

import "errors"

var (
	// ErrInvalidArgument marks input the service refuses to store.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks an update aimed at a task id that does not exist.
	ErrNotFound = errors.New("task not found")
)

// resultLabel maps an operation error to the metrics result label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
