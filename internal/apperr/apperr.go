package apperr

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidState
	KindSelfReference
)

// Error is the typed error every service operation returns. Code is a stable
// machine-readable string the HTTP layer forwards to clients unchanged.
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func NotFound(code, msg string) *Error      { return &Error{Kind: KindNotFound, Code: code, Msg: msg} }
func Conflict(code, msg string) *Error      { return &Error{Kind: KindConflict, Code: code, Msg: msg} }
func InvalidState(code, msg string) *Error  { return &Error{Kind: KindInvalidState, Code: code, Msg: msg} }
func SelfReference(code, msg string) *Error { return &Error{Kind: KindSelfReference, Code: code, Msg: msg} }

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
