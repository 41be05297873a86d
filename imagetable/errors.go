package imagetable

import (
	"errors"
	"io"
)

var (
	errTooManyImages = errors.New("too many images")
	errTooLarge      = errors.New("pixel data too large")
	errNotEnough     = errors.New("not enough data in stream")
	errTooMuch       = errors.New("trailing data")
	errOutOfBounds   = errors.New("offset beyond pixel data")
)

// FormatError reports a malformed or truncated image table. Op names the part
// of the table that could not be read.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string {
	return "imagetable: bad " + e.Op + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err, or anything it wraps, is a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func formatError(op string, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &FormatError{Op: op, Err: err}
}
