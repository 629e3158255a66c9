package catalog

import "fmt"

// Kind is the catalog's internal error taxonomy (spec.md §7); each value
// maps to exactly one HTTP status at the transport boundary.
type Kind int

const (
	KindBadRequest Kind = iota
	KindConflict
	KindFailedDependency
	KindNotFound
	KindPayloadTooLarge
	KindInternal
)

// Error wraps an underlying cause with the Kind that determines its
// boundary status code, so internal/api can map it without re-deriving
// the taxonomy.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("catalog: %v", e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func badRequest(err error) *Error       { return newError(KindBadRequest, err) }
func conflict(err error) *Error         { return newError(KindConflict, err) }
func failedDependency(err error) *Error { return newError(KindFailedDependency, err) }
func notFound(err error) *Error         { return newError(KindNotFound, err) }
func payloadTooLarge(err error) *Error  { return newError(KindPayloadTooLarge, err) }
func internal(err error) *Error         { return newError(KindInternal, err) }
