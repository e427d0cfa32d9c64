package domain

import "fmt"

// InvalidInputError reports raw input that could not be coerced into an exercise.
type InvalidInputError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// StoreWriteError reports an add, update or delete rejected by the document store.
type StoreWriteError struct {
	Op  string
	ID  string
	Err error
}

func (e *StoreWriteError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s exercise %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s exercise: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// StoreReadError reports a list the document store rejected or returned undecodable.
type StoreReadError struct {
	Err error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("list exercises: %v", e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }
