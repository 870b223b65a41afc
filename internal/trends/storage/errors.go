package storage

import "fmt"

// QueryError is a transport or query failure reported by the upstream store.
// Message is the upstream's own text.
type QueryError struct {
	Table   string
	Status  int
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("query %s: status %d: %s", e.Table, e.Status, e.Message)
	}
	return fmt.Sprintf("query %s: %s", e.Table, e.Message)
}

func (e *QueryError) Unwrap() error { return e.Err }
