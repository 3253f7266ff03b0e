package graph

import (
	"errors"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
)

// Error codes surfaced in the extensions map of GraphQL errors so
// clients can distinguish kinds without parsing messages.
const (
	CodeDuplicateUser    = "DUPLICATE_USER"
	CodeCreatorNotFound  = "CREATOR_NOT_FOUND"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

type operationError struct {
	code    string
	message string
	fields  map[string]interface{}
}

func (e *operationError) Error() string { return e.message }

func (e *operationError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	for k, v := range e.fields {
		ext[k] = v
	}
	return ext
}

// wrapError maps domain errors onto the wire taxonomy. Anything not
// recognized is a persistence failure and propagates as
// STORE_UNAVAILABLE; nothing is swallowed.
func wrapError(err error) error {
	var invalid events.ValidationError
	var orphan events.CreatorNotFoundError

	switch {
	case errors.Is(err, users.ErrEmailTaken):
		return &operationError{
			code:    CodeDuplicateUser,
			message: "a user with this email already exists",
			fields:  map[string]interface{}{"field": "email"},
		}
	case errors.Is(err, users.ErrInvalidEmail):
		return &operationError{
			code:    CodeValidationError,
			message: "email must be a valid address",
			fields:  map[string]interface{}{"field": "email"},
		}
	case errors.Is(err, users.ErrEmptyPassword):
		return &operationError{
			code:    CodeValidationError,
			message: "password must not be empty",
			fields:  map[string]interface{}{"field": "password"},
		}
	case errors.As(err, &invalid):
		return &operationError{
			code:    CodeValidationError,
			message: invalid.Error(),
			fields:  map[string]interface{}{"field": invalid.Field},
		}
	case errors.As(err, &orphan):
		// The event already exists; expose its id so the partial write
		// is visible to callers and monitoring, not hidden.
		return &operationError{
			code:    CodeCreatorNotFound,
			message: "creator does not exist; the event was persisted without a creator backlink",
			fields: map[string]interface{}{
				"creatorId":       orphan.CreatorID,
				"orphanedEventId": orphan.EventID,
			},
		}
	case errors.Is(err, users.ErrNotFound):
		return &operationError{
			code:    CodeCreatorNotFound,
			message: "referenced user does not exist",
		}
	default:
		return &operationError{
			code:    CodeStoreUnavailable,
			message: "persistence layer unavailable",
		}
	}
}

// errorCode returns the taxonomy code for metrics labels.
func errorCode(err error) string {
	if err == nil {
		return "ok"
	}
	var op *operationError
	if errors.As(err, &op) {
		return op.code
	}
	return CodeStoreUnavailable
}
