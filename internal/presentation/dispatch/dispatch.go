// Package dispatch maps query results and use case failures onto transport
// outcomes. It performs no I/O.
package dispatch

import (
	"errors"

	"verifier/internal/presentation/query"
	"verifier/internal/sentinel"
	dErrors "verifier/pkg/domain-errors"
)

// Outcome is the transport-level category of a presentation operation.
type Outcome int

const (
	Found Outcome = iota
	NotFound
	InvalidState
	Malformed
	Fault
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case InvalidState:
		return "invalid_state"
	case Malformed:
		return "malformed"
	default:
		return "fault"
	}
}

// ForQuery classifies a query result.
func ForQuery[T any](r query.Result[T]) Outcome {
	return query.Fold(r,
		func(T) Outcome { return Found },
		func() Outcome { return NotFound },
		func() Outcome { return InvalidState },
	)
}

// ForError classifies a use case failure. A nil error is Found.
func ForError(err error) Outcome {
	switch {
	case err == nil:
		return Found
	case errors.Is(err, sentinel.ErrMalformed):
		return Malformed
	case errors.Is(err, sentinel.ErrNotFound):
		return NotFound
	case errors.Is(err, sentinel.ErrInvalidState):
		return InvalidState
	}

	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case dErrors.CodeNotFound:
			return NotFound
		case dErrors.CodeInvalidState:
			return InvalidState
		case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation,
			dErrors.CodeInvalidRequest, dErrors.CodeAccessDenied:
			return Malformed
		}
	}
	return Fault
}

// Error renders a non-Found outcome as a domain error carrying msg. It returns
// nil for Found. Malformed input renders as a client error, never a server
// error.
func Error(o Outcome, msg string) error {
	switch o {
	case Found:
		return nil
	case NotFound:
		return dErrors.New(dErrors.CodeNotFound, msg)
	case InvalidState:
		return dErrors.New(dErrors.CodeInvalidState, msg)
	case Malformed:
		return dErrors.New(dErrors.CodeBadRequest, msg)
	default:
		return dErrors.New(dErrors.CodeInternal, msg)
	}
}
