package reader_errors

import (
	"errors"
	"fmt"
)

// Code is a stable identifier reported to the host alongside the error detail.
type Code string

const (
	RequiredValue       Code = "RequiredValue"
	InvalidConfig       Code = "InvalidConfig"
	InvalidSourcePath   Code = "InvalidSourcePath"
	EmptyResultSet      Code = "EmptyResultSet"
	DirectoryUnreadable Code = "DirectoryUnreadable"
	SourceOpenError     Code = "SourceOpenError"
)

// Fatal returns whether an error with this code aborts the whole job.
// SourceOpenError only ends processing of the file that raised it.
func (c Code) Fatal() bool {
	return c != SourceOpenError
}

// Error is a coded error. Path identifies the offending file or directory, if any.
type Error struct {
	Code    Code
	Message string
	Path    string
	Err     error
}

func New(code Code, path string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
	}
}

func Wrap(code Code, path string, err error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Err:     err,
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first coded error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
