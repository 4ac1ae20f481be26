package intake

import "errors"

// Kind classifies a submission failure. Handlers map kinds to HTTP status
// codes; the kind string itself is part of the API contract.
type Kind string

const (
	KindUnauthorized     Kind = "Unauthorized"
	KindInvalidSection   Kind = "InvalidSection"
	KindNotFound         Kind = "NotFound"
	KindDBError          Kind = "DbError"
	KindAlreadyCompleted Kind = "AlreadyCompleted"
	KindInvalidOrder     Kind = "InvalidOrder"
	KindNoValidFields    Kind = "NoValidFields"
	KindValidation       Kind = "ValidationError"
)

// Error is a submission failure with a stable kind. The wrapped cause, if
// any, is never exposed to clients.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the kind from an error, or empty string for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
