package client

import (
	"fmt"
	"net/http"
)

type Kind int

const (
	KindServer Kind = iota
	KindUnauthorized
	KindForbidden
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	default:
		return "ServerError"
	}
}

const (
	MsgUnauthorized = "يرجى تسجيل الدخول أولا"
	MsgForbidden    = "يتطلب صلاحيات المسؤول"
	MsgNotFound     = "العنصر غير موجود"
	MsgServer       = "حدث خطأ ما، حاول مرة أخرى"
)

// APIError is every failure the client reports. Message is what the user
// should see: the server's text for validation errors and a fixed text for
// the other kinds.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches on Kind, so errors.Is(err, ErrForbidden) holds for any 403.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthorized = &APIError{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: MsgUnauthorized}
	ErrForbidden    = &APIError{Kind: KindForbidden, Status: http.StatusForbidden, Message: MsgForbidden}
	ErrValidation   = &APIError{Kind: KindValidation, Status: http.StatusBadRequest}
	ErrNotFound     = &APIError{Kind: KindNotFound, Status: http.StatusNotFound, Message: MsgNotFound}
	ErrServer       = &APIError{Kind: KindServer, Status: http.StatusInternalServerError, Message: MsgServer}
)

// fromStatus classifies a non-2xx response. serverMsg is the envelope
// message, if any.
func fromStatus(status int, serverMsg string) *APIError {
	switch {
	case status == http.StatusUnauthorized:
		return &APIError{Kind: KindUnauthorized, Status: status, Message: orDefault(serverMsg, MsgUnauthorized)}
	case status == http.StatusForbidden:
		return &APIError{Kind: KindForbidden, Status: status, Message: MsgForbidden}
	case status == http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Status: status, Message: MsgNotFound}
	case status >= 400 && status < 500:
		return &APIError{Kind: KindValidation, Status: status, Message: orDefault(serverMsg, MsgServer)}
	default:
		return &APIError{Kind: KindServer, Status: status, Message: MsgServer}
	}
}

func validationError(message string) *APIError {
	return &APIError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
