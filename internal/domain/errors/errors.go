// Package errors defines the failure kinds the harness reports.
package errors

import (
	"fmt"

	"techmarket/internal/errors"
)

// Kind classifies a harness failure.
type Kind string

const (
	// ConnectionFailure means a backend could not be reached within the retry budget.
	ConnectionFailure Kind = "CONNECTION_FAILURE"
	// SchemaCreationFailure means a DDL or index statement was rejected.
	SchemaCreationFailure Kind = "SCHEMA_CREATION_FAILURE"
	// UniquenessExhaustion means the generator ran out of distinct values for a unique field.
	UniquenessExhaustion Kind = "UNIQUENESS_EXHAUSTION"
	// WriteFailure means an insert was rejected while loading.
	WriteFailure Kind = "WRITE_FAILURE"
	// QueryFailure means a benchmark statement failed.
	QueryFailure Kind = "QUERY_FAILURE"
)

// HarnessError carries the kind of failure together with where it happened.
type HarnessError struct {
	Kind    Kind
	Op      string
	Backend string
	Cause   error
}

// New creates a HarnessError. cause may be nil.
func New(kind Kind, backend, op string, cause error) *HarnessError {
	return &HarnessError{
		Kind:    kind,
		Op:      op,
		Backend: backend,
		Cause:   cause,
	}
}

// Error implements the error interface
func (e *HarnessError) Error() string {
	msg := string(e.Kind)
	if e.Backend != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Backend)
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Op)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *HarnessError) Unwrap() error {
	return e.Cause
}

// Is matches another HarnessError of the same kind, so sentinels such as
// ErrWrite can be used with errors.Is.
func (e *HarnessError) Is(target error) bool {
	t, ok := target.(*HarnessError)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.Op == "" && t.Backend == "" && t.Cause == nil
}

// Sentinels for errors.Is checks.
var (
	ErrConnection          = &HarnessError{Kind: ConnectionFailure}
	ErrSchemaCreation      = &HarnessError{Kind: SchemaCreationFailure}
	ErrUniquenessExhausted = &HarnessError{Kind: UniquenessExhaustion}
	ErrWrite               = &HarnessError{Kind: WriteFailure}
	ErrQuery               = &HarnessError{Kind: QueryFailure}
)

// KindOf returns the kind of the first HarnessError in err's chain.
func KindOf(err error) (Kind, bool) {
	he, ok := errors.AsType[*HarnessError](err)
	if !ok {
		return "", false
	}

	return he.Kind, true
}
