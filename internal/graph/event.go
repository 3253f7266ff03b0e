package graph

import (
	"context"
	"errors"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
)

type EventResolver struct {
	event events.Event
	root  *Resolver
}

func (r *EventResolver) ID() graphql.ID {
	return graphql.ID(r.event.ID)
}

func (r *EventResolver) Name() string {
	return r.event.Name
}

func (r *EventResolver) Description() string {
	return r.event.Description
}

func (r *EventResolver) Price() float64 {
	return r.event.Price
}

func (r *EventResolver) Date() string {
	return r.event.Date.Format(time.RFC3339)
}

// Creator resolves the stored creator reference to the full user by id
// lookup. An orphaned event has no resolvable creator; that surfaces
// here as CREATOR_NOT_FOUND rather than a null creator.
func (r *EventResolver) Creator(ctx context.Context) (*UserResolver, error) {
	user, err := r.root.users.Get(ctx, r.event.CreatorID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			r.root.logger.Warn().
				Str("event_id", r.event.ID).
				Str("creator_id", r.event.CreatorID).
				Msg("event references missing creator")
		}
		return nil, wrapError(err)
	}
	return &UserResolver{user: *user, root: r.root}, nil
}
