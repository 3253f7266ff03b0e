package users

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is the stored representation. PasswordHash is the bcrypt output,
// never the plaintext. CreatedEventIDs is append-only: one entry per
// event this user created, ids owned by the persistence layer.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	CreatedEventIDs []string
	CreatedAt       time.Time
}

type CreateParams struct {
	Email        string
	PasswordHash string
}

type Repository interface {
	Insert(ctx context.Context, params CreateParams) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// AppendCreatedEvent atomically appends eventID to the user's
	// createdEvents against the current stored document, so racing
	// appends both land. Returns ErrNotFound if no such user exists.
	AppendCreatedEvent(ctx context.Context, userID, eventID string) error
}
