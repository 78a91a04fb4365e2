// Package apperror defines the error taxonomy shared by the policy engine,
// the usecases and the HTTP layer.
package apperror

import "errors"

// Kind classifies an error by how the caller should react to it.
type Kind int

const (
	KindInternal Kind = iota
	// KindValidation is malformed or duplicate input.
	KindValidation
	// KindUnauthorized is a missing, invalid or expired credential.
	KindUnauthorized
	// KindForbidden is an authenticated caller acting outside its role or ownership.
	KindForbidden
	// KindPolicy is a well-formed request that breaks a business rule.
	KindPolicy
	KindNotFound

	// kindAuth groups KindUnauthorized and KindForbidden for errors.Is.
	kindAuth
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindPolicy:
		return "policy"
	case KindNotFound:
		return "not_found"
	case kindAuth:
		return "auth"
	default:
		return "internal"
	}
}

// Error is a classified error. Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets the kind sentinels below match any error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Err != nil {
		return false
	}
	if t.Kind == kindAuth {
		return e.Kind == KindUnauthorized || e.Kind == KindForbidden
	}
	return t.Kind == e.Kind
}

// Kind sentinels. errors.Is(err, ErrPolicy) is true for every policy error.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrAuth       = &Error{Kind: kindAuth}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrPolicy     = &Error{Kind: KindPolicy}
	ErrNotFound   = &Error{Kind: KindNotFound}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the message of the first *Error in err's chain.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return ""
}
