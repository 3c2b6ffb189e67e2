package errors

import (
	"errors"
	"fmt"
	"os"
)

type ExitCode int

const (
	ExitSuccess ExitCode = 0
	// general error
	ExitGeneral ExitCode = 1
	// configuration error
	ExitConfig ExitCode = 2
	// git-related error
	ExitGit ExitCode = 3
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WithExitCode wraps err so that CodeOf reports code. A nil err stays nil.
func WithExitCode(code ExitCode, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// CodeOf returns the exit code attached to err, ExitGeneral when none is.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneral
}

func FatalError(code ExitCode, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(int(code))
}
