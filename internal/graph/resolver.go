package graph

import (
	"context"
	"errors"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
	"github.com/eventbook/server/internal/metrics"
)

// Resolver is the root resolver for queries and mutations. It owns no
// state beyond references to the domain services; every operation runs
// independently and concurrently with the others.
type Resolver struct {
	events *events.Service
	users  *users.Service
	logger zerolog.Logger
}

func NewResolver(eventsSvc *events.Service, usersSvc *users.Service, logger zerolog.Logger) *Resolver {
	return &Resolver{
		events: eventsSvc,
		users:  usersSvc,
		logger: logger.With().Str("component", "graph").Logger(),
	}
}

type EventInput struct {
	Name        string
	Description string
	Price       float64
	Date        string
	CreatorID   graphql.ID
}

type UserInput struct {
	Email    string
	Password string
}

func (r *Resolver) Events(ctx context.Context) ([]*EventResolver, error) {
	defer r.observe("events", time.Now())

	listed, err := r.events.List(ctx)
	if err != nil {
		r.count("events", err)
		return nil, wrapError(err)
	}
	r.count("events", nil)

	resolvers := make([]*EventResolver, 0, len(listed))
	for _, ev := range listed {
		resolvers = append(resolvers, &EventResolver{event: ev, root: r})
	}
	return resolvers, nil
}

func (r *Resolver) Users(ctx context.Context) ([]*UserResolver, error) {
	defer r.observe("users", time.Now())

	listed, err := r.users.List(ctx)
	if err != nil {
		r.count("users", err)
		return nil, wrapError(err)
	}
	r.count("users", nil)

	resolvers := make([]*UserResolver, 0, len(listed))
	for _, u := range listed {
		resolvers = append(resolvers, &UserResolver{user: u, root: r})
	}
	return resolvers, nil
}

func (r *Resolver) CreateEvent(ctx context.Context, args struct{ Input EventInput }) (*EventResolver, error) {
	defer r.observe("createEvent", time.Now())

	event, err := r.events.Create(ctx, events.CreateEventParams{
		Name:        args.Input.Name,
		Description: args.Input.Description,
		Price:       args.Input.Price,
		Date:        args.Input.Date,
		CreatorID:   string(args.Input.CreatorID),
	})
	if err != nil {
		var orphan events.CreatorNotFoundError
		if errors.As(err, &orphan) {
			metrics.OrphanedEventsTotal.Inc()
		}
		r.count("createEvent", err)
		return nil, wrapError(err)
	}
	r.count("createEvent", nil)

	return &EventResolver{event: *event, root: r}, nil
}

func (r *Resolver) CreateUser(ctx context.Context, args struct{ Input UserInput }) (*UserResolver, error) {
	defer r.observe("createUser", time.Now())

	user, err := r.users.Register(ctx, args.Input.Email, args.Input.Password)
	if err != nil {
		r.count("createUser", err)
		return nil, wrapError(err)
	}
	r.count("createUser", nil)

	return &UserResolver{user: *user, root: r}, nil
}

func (r *Resolver) observe(operation string, start time.Time) {
	metrics.GraphQLOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (r *Resolver) count(operation string, err error) {
	status := "ok"
	if err != nil {
		status = errorCode(wrapError(err))
	}
	metrics.GraphQLOperationsTotal.WithLabelValues(operation, status).Inc()
}
