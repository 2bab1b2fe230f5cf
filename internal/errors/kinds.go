package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure for logging and for choosing the alert.
type Kind int

const (
	// KindConnection is an open or transport failure on the live channel.
	// It is retried by the transport's reconnect policy.
	KindConnection Kind = iota + 1
	// KindMessageParse is an inbound payload that could not be decoded.
	// It is logged and swallowed; the connection is unaffected.
	KindMessageParse
	// KindRequest is a network or non-success status on a fallback call.
	// It is never retried automatically.
	KindRequest
	// KindExhaustedRetries is terminal for the live channel.
	KindExhaustedRetries
)

// String returns the name used in logs.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "ConnectionError"
	case KindMessageParse:
		return "MessageParseError"
	case KindRequest:
		return "RequestError"
	case KindExhaustedRetries:
		return "ExhaustedRetries"
	default:
		return "UnknownError"
	}
}

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New creates a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same Kind, so callers can write
// errors.Is(err, &Error{Kind: KindRequest}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ErrExhausted is raised once the live channel stops reconnecting.
var ErrExhausted = New(KindExhaustedRetries, "reconnect", stderrors.New("maximum reconnection attempts reached"))

// User-facing alert texts.
const (
	MsgConnectionLost  = "Connection to notifications was lost. Please restart to reconnect."
	MsgConnectionError = "An error occurred with live notifications. Retrying..."
)
