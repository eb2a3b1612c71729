package catalog

import (
	"errors"

	"apiexplorer/internal/db"
	"apiexplorer/internal/moderation"
	"apiexplorer/internal/validation"
	"apiexplorer/internal/voting"
)

// ErrorKind classifies errors returned by the Service.
type ErrorKind int

// Error kinds. KindStorage covers every failure that is not a precondition.
const (
	KindNone ErrorKind = iota
	KindNotFound
	KindInvalidState
	KindValidation
	KindStorage
)

// String returns a short lower-case name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindValidation:
		return "validation"
	default:
		return "storage"
	}
}

// Kind classifies err.
func Kind(err error) ErrorKind {
	var verr *validation.Error
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, db.ErrEntryNotFound), errors.Is(err, db.ErrRequestNotFound):
		return KindNotFound
	case errors.Is(err, moderation.ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, moderation.ErrReasonRequired),
		errors.Is(err, voting.ErrInvalidDirection),
		errors.As(err, &verr):
		return KindValidation
	default:
		return KindStorage
	}
}
