package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNameRequired  = errors.New("recipe name required")
	ErrInvalid       = errors.New("invalid recipe")
	ErrStorageRead   = errors.New("storage read failed")
	ErrStorageWrite  = errors.New("storage write failed")
)

// StorageError reports a failed call into the key-value store. Message is
// meant for the user; Kind is ErrStorageRead or ErrStorageWrite.
type StorageError struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap lets errors.Is match both the kind sentinel and the cause.
func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage returns the message to show for err, falling back to its
// text when err is not a StorageError.
func UserMessage(err error) string {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

// ReadError wraps a failed store read.
func ReadError(op, message string, err error) error {
	return &StorageError{Op: op, Kind: ErrStorageRead, Message: message, Err: err}
}

// WriteError wraps a failed store write.
func WriteError(op, message string, err error) error {
	return &StorageError{Op: op, Kind: ErrStorageWrite, Message: message, Err: err}
}
