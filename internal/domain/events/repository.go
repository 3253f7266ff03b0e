package events

import (
	"context"
	"time"
)

// LinkState tracks the two-phase write of createEvent. An event is
// persisted as created first; only after its id lands in the creator's
// createdEvents list is it marked linked. Events stuck in created are
// orphans awaiting reconciliation.
type LinkState string

const (
	LinkStateCreated LinkState = "created"
	LinkStateLinked  LinkState = "linked"
)

type Event struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Date        time.Time
	CreatorID   string
	LinkState   LinkState
	CreatedAt   time.Time
}

type CreateParams struct {
	Name        string
	Description string
	Price       float64
	Date        time.Time
	CreatorID   string
}

type Repository interface {
	// Insert persists a new event in LinkStateCreated and returns it
	// with the store-assigned id.
	Insert(ctx context.Context, params CreateParams) (*Event, error)
	MarkLinked(ctx context.Context, id string) error
	List(ctx context.Context) ([]Event, error)
	FindByIDs(ctx context.Context, ids []string) ([]Event, error)
}
