package task

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("task not found")
	ErrEmptyTitle      = errors.New("task title must not be empty")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// CorruptError reports that the persisted payload could not be decoded
// into a task collection.
type CorruptError struct {
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt task storage: %v", e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// PersistError reports a failed save. By the time it surfaces the
// in-memory mutation has already been rolled back.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist tasks: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
