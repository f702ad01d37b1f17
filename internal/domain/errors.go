package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP and bot boundaries.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindNotFound
	KindInsufficientRights
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindNotFound:
		return "NotFound"
	case KindInsufficientRights:
		return "InsufficientRights"
	case KindUnauthorized:
		return "Unauthorized"
	}
	return "Unknown"
}

// Reason narrows a BadRequest so callers can pick a message without matching text.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonInvalidLocation    Reason = "invalid_location"
	ReasonInvalidCoordinates Reason = "invalid_coordinates"
	ReasonOutOfBounds        Reason = "out_of_bounds"
	ReasonInvalidCategory    Reason = "invalid_category"
	ReasonInvalidText        Reason = "invalid_text"
	ReasonPhotoCount         Reason = "photo_count"
	ReasonUnsupportedFormat  Reason = "unsupported_format"
	ReasonInvalidPhoto       Reason = "invalid_photo"
	ReasonInvalidStatus      Reason = "invalid_status"
	ReasonIllegalTransition  Reason = "illegal_transition"
	ReasonMissingReason      Reason = "missing_reason"
	ReasonInvalidMaintainer  Reason = "invalid_maintainer"
)

// Error is the error type surfaced by the lifecycle engine and validators.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors of the same kind, so errors.Is(err, ErrNotFound) works for any not-found error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == ReasonNone || t.Reason == e.Reason)
}

// Sentinels for errors.Is checks by kind.
var (
	ErrBadRequest         = &Error{Kind: KindBadRequest}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInsufficientRights = &Error{Kind: KindInsufficientRights}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
)

func BadRequest(reason Reason, format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InsufficientRights(format string, args ...any) *Error {
	return &Error{Kind: KindInsufficientRights, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return kind != 0 && KindOf(err) == kind
}

// ReasonOf returns the reason of the first *Error in err's chain.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonNone
}
