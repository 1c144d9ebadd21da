package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a keyed record does not exist under its collection.
var ErrNotFound = errors.New("record not found")

// StoreError reports a failure of the backing tree (transport, permission, cancellation).
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// DecodeError reports stored data that does not match the requested record shape.
type DecodeError struct {
	Path string
	Key  string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("decode %s/%s: %v", e.Path, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// abortError carries an error raised inside a transaction function so the
// adapter can hand it back to the caller unwrapped.
type abortError struct {
	err error
}

func (e *abortError) Error() string {
	return e.err.Error()
}

func (e *abortError) Unwrap() error {
	return e.err
}
