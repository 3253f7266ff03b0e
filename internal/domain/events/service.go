package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/eventbook/server/internal/domain/users"
)

// CreatorLink is the slice of the user store that createEvent needs:
// appending an event id to the creator's document. Implementations
// return users.ErrNotFound when the creator does not exist.
type CreatorLink interface {
	AppendCreatedEvent(ctx context.Context, userID, eventID string) error
}

type Service struct {
	repo     Repository
	creators CreatorLink
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewService(repo Repository, creators CreatorLink, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		creators: creators,
		validate: validator.New(),
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

type CreateEventParams struct {
	Name        string  `validate:"required"`
	Description string  `validate:"required"`
	Price       float64 `validate:"gte=0"`
	Date        string  `validate:"required"`
	CreatorID   string  `validate:"required"`
}

// Create runs the two-phase event write: persist the event, then append
// its id to the creator's document. The event write is the point of no
// return; if the creator turns out not to exist the event stays behind
// as an orphan and the caller gets CreatorNotFoundError carrying its id.
// Between the two writes a concurrent reader sees the event without the
// creator backlink (read skew, transient); only a phase-two failure
// makes that state permanent.
func (s *Service) Create(ctx context.Context, params CreateEventParams) (*Event, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	date, err := parseDate(params.Date)
	if err != nil {
		return nil, ValidationError{Field: "date", Message: "must be an RFC 3339 timestamp or YYYY-MM-DD date"}
	}

	event, err := s.repo.Insert(ctx, CreateParams{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Date:        date,
		CreatorID:   params.CreatorID,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.creators.AppendCreatedEvent(ctx, params.CreatorID, event.ID); err != nil {
		s.logger.Warn().
			Str("event_id", event.ID).
			Str("creator_id", params.CreatorID).
			Err(err).
			Msg("event persisted without creator backlink")
		if errors.Is(err, users.ErrNotFound) {
			return nil, CreatorNotFoundError{EventID: event.ID, CreatorID: params.CreatorID}
		}
		return nil, fmt.Errorf("link creator: %w", err)
	}

	// Marker only: the backlink already exists, so a failure here leaves
	// a linked event labeled created, which reconciliation tolerates.
	if err := s.repo.MarkLinked(ctx, event.ID); err != nil {
		s.logger.Warn().Str("event_id", event.ID).Err(err).Msg("failed to mark event linked")
	} else {
		event.LinkState = LinkStateLinked
	}

	return event, nil
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByIDs resolves stored event references to full events, for
// traversing a user's createdEvents.
func (s *Service) FindByIDs(ctx context.Context, ids []string) ([]Event, error) {
	if len(ids) == 0 {
		return []Event{}, nil
	}
	events, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	return events, nil
}

func (s *Service) validateParams(params CreateEventParams) error {
	err := s.validate.Struct(params)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) && len(invalid) > 0 {
		field := invalid[0]
		switch field.Tag() {
		case "gte":
			return ValidationError{Field: fieldName(field.Field()), Message: "must not be negative"}
		default:
			return ValidationError{Field: fieldName(field.Field()), Message: "is required"}
		}
	}
	return ValidationError{Message: err.Error()}
}

func fieldName(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "Description":
		return "description"
	case "Price":
		return "price"
	case "Date":
		return "date"
	case "CreatorID":
		return "creatorId"
	}
	return structField
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
