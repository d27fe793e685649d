package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fekuna/stockmanager/internal/remote"
)

// Exit codes. Commands that fall back to the local store still exit with ExitSuccess; the two
// remote codes are only used by commands that have no fallback.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
	// ExitUnavailable means the API could not be reached at all.
	ExitUnavailable = 3
	// ExitNotFound means the API answered 404 for the requested id.
	ExitNotFound = 4
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// remoteExitError picks the exit code for a failed API call: no response at all is
// ExitUnavailable, a 404 is ExitNotFound and any other status is ExitFailure.
func remoteExitError(message string, err error) *ExitError {
	var se *remote.StatusError
	switch {
	case !errors.As(err, &se):
		return WrapExitError(ExitUnavailable, message, err)
	case se.StatusCode == http.StatusNotFound:
		return WrapExitError(ExitNotFound, message, err)
	default:
		return WrapExitError(ExitFailure, message, err)
	}
}

// GetExitCode returns ExitFailure for errors that carry no code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
