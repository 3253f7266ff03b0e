package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/eventbook/server/internal/domain/users"
)

type UserResolver struct {
	user users.User
	root *Resolver
}

func (r *UserResolver) ID() graphql.ID {
	return graphql.ID(r.user.ID)
}

func (r *UserResolver) Email() string {
	return r.user.Email
}

// Password is always null in responses. The stored hash never leaves
// the persistence layer through this API.
func (r *UserResolver) Password() *string {
	return nil
}

func (r *UserResolver) CreatedEvents(ctx context.Context) ([]*EventResolver, error) {
	listed, err := r.root.events.FindByIDs(ctx, r.user.CreatedEventIDs)
	if err != nil {
		return nil, wrapError(err)
	}

	resolvers := make([]*EventResolver, 0, len(listed))
	for _, ev := range listed {
		resolvers = append(resolvers, &EventResolver{event: ev, root: r.root})
	}
	return resolvers, nil
}
