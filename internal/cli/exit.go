package cli

import (
	"errors"
	"fmt"
	"io"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitRejected = 1 // the input was checked and rejected
	ExitFailure  = 2 // the command could not run
)

// ExitError carries a process exit code.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		if e.Message == "" {
			return e.Cause.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

func usageError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitFailure, Message: msg, Cause: cause}
}

// rejected reports a negative check result; the output has already been written.
func rejected() *ExitError {
	return &ExitError{Code: ExitRejected}
}

// ExitCode prints err to w (unless it is a silent rejection) and returns the code to exit with.
func ExitCode(err error, w io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintf(w, "Error: %s\n", msg)
		}
		return exitErr.Code
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return ExitFailure
}
