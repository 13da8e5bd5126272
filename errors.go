package ulog

import "fmt"

// FatalError is an unrecoverable decode failure: the file is rejected and no
// partial result is produced.
//
// Offset is the absolute byte position in the raw, inflated buffer where the
// failure was detected, and Op names the decode stage. The wrapped error is
// one of the sentinels in the errs package, so callers can test the exact
// cause with errors.Is.
type FatalError struct {
	Offset int64
	Op     string
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("ulog: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatalf(offset int64, op string, err error) *FatalError {
	return &FatalError{Offset: offset, Op: op, Err: err}
}
