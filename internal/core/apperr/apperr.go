package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindUnauthenticated   Kind = "UNAUTHENTICATED"
	KindInvalidCredential Kind = "INVALID_CREDENTIAL"
	KindForbidden         Kind = "FORBIDDEN"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindInternal          Kind = "INTERNAL"
)

// Error service 交给传输层的唯一错误类型；Message 可以回给调用方，Cause 不能
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, msg string) error { return &Error{Kind: kind, Message: msg} }

func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func Validation(msg string) error        { return New(KindValidation, msg) }
func Unauthenticated(msg string) error   { return New(KindUnauthenticated, msg) }
func InvalidCredential(msg string) error { return New(KindInvalidCredential, msg) }
func Forbidden(msg string) error         { return New(KindForbidden, msg) }
func NotFound(msg string) error          { return New(KindNotFound, msg) }
func Conflict(msg string) error          { return New(KindConflict, msg) }

func Internal(msg string, cause error) error { return Wrap(KindInternal, msg, cause) }

// KindOf 非 *Error 一律按 Internal
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is 判断错误种类
func Is(err error, kind Kind) bool { return err != nil && KindOf(err) == kind }

// Message 对外文案
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal Server Error"
}
