package events

import (
	"errors"

	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

// Error carries a coded failure to the host
type Error struct {
	Base
	ExecutionId string
	Code        reader_errors.Code
	Path        string
	Err         error
}

func NewErrorEvent(executionId string, err error) *Error {
	e := &Error{
		ExecutionId: executionId,
		Err:         err,
	}
	var coded *reader_errors.Error
	if errors.As(err, &coded) {
		e.Code = coded.Code
		e.Path = coded.Path
	}
	return e
}

// Detail is the human readable part of the error
func (c *Error) Detail() string {
	if c.Err == nil {
		return ""
	}
	return c.Err.Error()
}
