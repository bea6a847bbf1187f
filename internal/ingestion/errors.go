package ingestion

import (
	"errors"
	"fmt"
)

var ErrMissingSource = errors.New("recipe has no source url")

// PersistenceError reports a failed store write for one unit of work.
type PersistenceError struct {
	Backend string
	Entity  string
	Key     string
	Op      string
	Cause   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s %s %q: %v", e.Backend, e.Op, e.Entity, e.Key, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// ResolveError reports a resolver failure for one phrase.
type ResolveError struct {
	Phrase string
	Cause  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Phrase, e.Cause)
}

func (e *ResolveError) Unwrap() error { return e.Cause }

// NormalizeError reports an ingredient line the tagger could not process.
type NormalizeError struct {
	Line  string
	Cause error
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalize %q: %v", e.Line, e.Cause)
}

func (e *NormalizeError) Unwrap() error { return e.Cause }
