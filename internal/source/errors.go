package source

import "fmt"

// FetchError marks a read-path failure. Aggregators catch it and degrade to
// empty collections; direct callers may surface the message.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CreateError marks a write-path failure during record creation, including
// client-side validation. It is surfaced to the caller unmodified.
type CreateError struct {
	Op  string
	Err error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Op, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// UpdateError marks a write-path failure during record update.
type UpdateError struct {
	Op  string
	Err error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update %s: %v", e.Op, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }
