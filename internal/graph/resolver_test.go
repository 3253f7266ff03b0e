package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
)

// In-memory repositories backing the resolver tests. They mirror the
// store contract: single-document writes, ids assigned on insert.

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users []*users.User
}

func (m *memUserRepo) Insert(_ context.Context, params users.CreateParams) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	u := &users.User{
		ID:              fmt.Sprintf("u%d", m.seq),
		Email:           params.Email,
		PasswordHash:    params.PasswordHash,
		CreatedEventIDs: []string{},
		CreatedAt:       time.Now(),
	}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memUserRepo) FindByID(_ context.Context, id string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, users.ErrNotFound
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, users.ErrNotFound
}

func (m *memUserRepo) List(_ context.Context) ([]users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]users.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUserRepo) AppendCreatedEvent(_ context.Context, userID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == userID {
			u.CreatedEventIDs = append(u.CreatedEventIDs, eventID)
			return nil
		}
	}
	return users.ErrNotFound
}

type memEventRepo struct {
	mu     sync.Mutex
	seq    int
	events []*events.Event
}

func (m *memEventRepo) Insert(_ context.Context, params events.CreateParams) (*events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	ev := &events.Event{
		ID:          fmt.Sprintf("e%d", m.seq),
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Date:        params.Date,
		CreatorID:   params.CreatorID,
		LinkState:   events.LinkStateCreated,
	}
	m.events = append(m.events, ev)
	return ev, nil
}

func (m *memEventRepo) MarkLinked(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id {
			ev.LinkState = events.LinkStateLinked
		}
	}
	return nil
}

func (m *memEventRepo) List(_ context.Context) ([]events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.Event, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, *ev)
	}
	return out, nil
}

func (m *memEventRepo) FindByIDs(_ context.Context, ids []string) ([]events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []events.Event
	for _, ev := range m.events {
		for _, id := range ids {
			if ev.ID == id {
				out = append(out, *ev)
			}
		}
	}
	return out, nil
}

type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) { return "hash:" + plaintext, nil }
func (plainHasher) Verify(plaintext, hash string) bool    { return hash == "hash:"+plaintext }

func newTestSchema(t *testing.T) (*graphql.Schema, *memUserRepo, *memEventRepo) {
	t.Helper()
	userRepo := &memUserRepo{}
	eventRepo := &memEventRepo{}
	usersSvc := users.NewService(userRepo, plainHasher{}, zerolog.Nop())
	eventsSvc := events.NewService(eventRepo, userRepo, zerolog.Nop())

	schema, err := NewSchema(NewResolver(eventsSvc, usersSvc, zerolog.Nop()))
	require.NoError(t, err)
	return schema, userRepo, eventRepo
}

func exec(t *testing.T, schema *graphql.Schema, query string, vars map[string]interface{}) *graphql.Response {
	t.Helper()
	return schema.Exec(context.Background(), query, "", vars)
}

func errorCodeOf(t *testing.T, resp *graphql.Response) string {
	t.Helper()
	require.NotEmpty(t, resp.Errors)
	code, _ := resp.Errors[0].Extensions["code"].(string)
	return code
}

const createUserMutation = `
	mutation ($input: UserInput!) {
		createUser(input: $input) {
			id
			email
			password
			createdEvents { id }
		}
	}`

const createEventMutation = `
	mutation ($input: EventInput!) {
		createEvent(input: $input) {
			id
			name
			price
			date
			creator { id email }
		}
	}`

func registerUser(t *testing.T, schema *graphql.Schema, email string) string {
	t.Helper()
	resp := exec(t, schema, createUserMutation, map[string]interface{}{
		"input": map[string]interface{}{"email": email, "password": "secret"},
	})
	require.Empty(t, resp.Errors)

	var payload struct {
		CreateUser struct {
			ID string `json:"id"`
		} `json:"createUser"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	return payload.CreateUser.ID
}

func TestSchemaParses(t *testing.T) {
	_, err := NewSchema(NewResolver(nil, nil, zerolog.Nop()))
	require.NoError(t, err)
}

func TestCreateUser_SuppressesPassword(t *testing.T) {
	schema, userRepo, _ := newTestSchema(t)

	resp := exec(t, schema, createUserMutation, map[string]interface{}{
		"input": map[string]interface{}{"email": "a@b.com", "password": "secret"},
	})
	require.Empty(t, resp.Errors)

	var payload struct {
		CreateUser struct {
			ID            string   `json:"id"`
			Email         string   `json:"email"`
			Password      *string  `json:"password"`
			CreatedEvents []struct{} `json:"createdEvents"`
		} `json:"createUser"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.Equal(t, "a@b.com", payload.CreateUser.Email)
	require.Nil(t, payload.CreateUser.Password, "password must be null in responses")
	require.Empty(t, payload.CreateUser.CreatedEvents)

	// The stored document holds the hash, never the plaintext.
	require.Len(t, userRepo.users, 1)
	require.NotEqual(t, "secret", userRepo.users[0].PasswordHash)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	schema, userRepo, _ := newTestSchema(t)
	registerUser(t, schema, "a@b.com")

	resp := exec(t, schema, createUserMutation, map[string]interface{}{
		"input": map[string]interface{}{"email": "a@b.com", "password": "other"},
	})
	require.Equal(t, CodeDuplicateUser, errorCodeOf(t, resp))
	require.Len(t, userRepo.users, 1, "second call must not write")
}

func TestCreateUser_MalformedRequestRejectedBeforeResolver(t *testing.T) {
	schema, userRepo, _ := newTestSchema(t)

	// password missing entirely: shape violation, caught by the schema
	resp := exec(t, schema, createUserMutation, map[string]interface{}{
		"input": map[string]interface{}{"email": "a@b.com"},
	})
	require.NotEmpty(t, resp.Errors)
	require.Empty(t, userRepo.users, "no resolver ran, no side effects")
}

func TestCreateEvent_HappyPath(t *testing.T) {
	schema, userRepo, _ := newTestSchema(t)
	creatorID := registerUser(t, schema, "a@b.com")

	resp := exec(t, schema, createEventMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"name":        "Meetup",
			"description": "Monthly get-together",
			"price":       10.0,
			"date":        "2024-01-01",
			"creatorId":   creatorID,
		},
	})
	require.Empty(t, resp.Errors)

	var payload struct {
		CreateEvent struct {
			ID      string  `json:"id"`
			Name    string  `json:"name"`
			Price   float64 `json:"price"`
			Creator struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"creator"`
		} `json:"createEvent"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.Equal(t, "Meetup", payload.CreateEvent.Name)
	require.Equal(t, creatorID, payload.CreateEvent.Creator.ID, "creator resolves to the full user")

	// Post-condition of the happy path: backlink written.
	require.Equal(t, []string{payload.CreateEvent.ID}, userRepo.users[0].CreatedEventIDs)
}

func TestCreateEvent_CreatorMissing_OrphanVisible(t *testing.T) {
	schema, _, eventRepo := newTestSchema(t)

	resp := exec(t, schema, createEventMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"name":        "Meetup",
			"description": "Monthly get-together",
			"price":       10.0,
			"date":        "2024-01-01",
			"creatorId":   "nobody",
		},
	})
	require.Equal(t, CodeCreatorNotFound, errorCodeOf(t, resp))
	orphanID, _ := resp.Errors[0].Extensions["orphanedEventId"].(string)
	require.NotEmpty(t, orphanID, "error must identify the orphaned event")

	// The orphan is not rolled back: a subsequent events query sees it.
	listResp := exec(t, schema, `{ events { id name } }`, nil)
	require.Empty(t, listResp.Errors)

	var listed struct {
		Events []struct {
			ID string `json:"id"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(listResp.Data, &listed))
	require.Len(t, listed.Events, 1)
	require.Equal(t, orphanID, listed.Events[0].ID)
	require.Equal(t, events.LinkStateCreated, eventRepo.events[0].LinkState)
}

func TestCreateEvent_NegativePrice(t *testing.T) {
	schema, _, eventRepo := newTestSchema(t)
	creatorID := registerUser(t, schema, "a@b.com")

	resp := exec(t, schema, createEventMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"name":        "Meetup",
			"description": "Monthly get-together",
			"price":       -5.0,
			"date":        "2024-01-01",
			"creatorId":   creatorID,
		},
	})
	require.Equal(t, CodeValidationError, errorCodeOf(t, resp))
	require.Empty(t, eventRepo.events, "value validation failure must not write")
}

func TestListUsers_IncludesCreatedEvents(t *testing.T) {
	schema, _, _ := newTestSchema(t)
	creatorID := registerUser(t, schema, "a@b.com")

	createResp := exec(t, schema, createEventMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"name":        "Meetup",
			"description": "Monthly get-together",
			"price":       10.0,
			"date":        "2024-01-01T19:00:00Z",
			"creatorId":   creatorID,
		},
	})
	require.Empty(t, createResp.Errors)

	resp := exec(t, schema, `{ users { id email password createdEvents { id name } } }`, nil)
	require.Empty(t, resp.Errors)

	var payload struct {
		Users []struct {
			ID            string  `json:"id"`
			Password      *string `json:"password"`
			CreatedEvents []struct {
				Name string `json:"name"`
			} `json:"createdEvents"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.Len(t, payload.Users, 1)
	require.Nil(t, payload.Users[0].Password)
	require.Len(t, payload.Users[0].CreatedEvents, 1)
	require.Equal(t, "Meetup", payload.Users[0].CreatedEvents[0].Name)
}

func TestListEvents_ResolvesCreator(t *testing.T) {
	schema, _, _ := newTestSchema(t)
	creatorID := registerUser(t, schema, "a@b.com")

	createResp := exec(t, schema, createEventMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"name":        "Meetup",
			"description": "Monthly get-together",
			"price":       10.0,
			"date":        "2024-01-01",
			"creatorId":   creatorID,
		},
	})
	require.Empty(t, createResp.Errors)

	resp := exec(t, schema, `{ events { id creator { id email } } }`, nil)
	require.Empty(t, resp.Errors)

	var payload struct {
		Events []struct {
			Creator struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"creator"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payload))
	require.Len(t, payload.Events, 1)
	require.Equal(t, "a@b.com", payload.Events[0].Creator.Email, "creator is a full user object, not a bare id")
}
