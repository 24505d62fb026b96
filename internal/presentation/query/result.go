// Package query defines the closed result type returned by every read-side
// presentation operation.
//
// A Result is exactly one of Found, NotFound or InvalidState. The tag is not
// exported: callers can only observe it through Match or Fold, both of which
// take one handler per variant, so a caller that forgets a variant does not
// compile.
package query

type kind uint8

const (
	kindNotFound kind = iota
	kindInvalidState
	kindFound
)

// Result is the outcome of a lookup.
//
// The zero value is NotFound, which keeps an uninitialised result from ever
// being mistaken for a successful one.
type Result[T any] struct {
	kind  kind
	value T
}

// Found wraps a well-formed value.
func Found[T any](value T) Result[T] {
	return Result[T]{kind: kindFound, value: value}
}

// NotFound reports that nothing exists for the key: never existed, expired,
// or unreadable.
func NotFound[T any]() Result[T] {
	return Result[T]{kind: kindNotFound}
}

// InvalidState reports that a record exists but the query cannot produce a
// value from its current state.
func InvalidState[T any]() Result[T] {
	return Result[T]{kind: kindInvalidState}
}

// Match runs exactly one of the handlers.
func (r Result[T]) Match(found func(T), notFound func(), invalidState func()) {
	switch r.kind {
	case kindFound:
		found(r.value)
	case kindInvalidState:
		invalidState()
	default:
		notFound()
	}
}

// Fold maps a result to R by running exactly one of the handlers.
func Fold[T, R any](r Result[T], found func(T) R, notFound func() R, invalidState func() R) R {
	switch r.kind {
	case kindFound:
		return found(r.value)
	case kindInvalidState:
		return invalidState()
	default:
		return notFound()
	}
}

// Map transforms the value of a Found result and passes the other variants through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	return Fold(r,
		func(v T) Result[U] { return Found(fn(v)) },
		NotFound[U],
		InvalidState[U],
	)
}

// String names the variant for logs and metric labels.
func (r Result[T]) String() string {
	switch r.kind {
	case kindFound:
		return "found"
	case kindInvalidState:
		return "invalid_state"
	default:
		return "not_found"
	}
}
