package api

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/graph-gophers/graphql-go/relay"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/eventbook/server/internal/api/handlers"
	"github.com/eventbook/server/internal/api/middleware"
	"github.com/eventbook/server/internal/auth"
	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
	"github.com/eventbook/server/internal/graph"
	"github.com/eventbook/server/internal/metrics"
	"github.com/eventbook/server/internal/storage/mongodb"
)

// NewRouter wires the domain services to the GraphQL endpoint and the
// operational endpoints, wrapped in the middleware chain.
func NewRouter(logger zerolog.Logger, store *mongodb.Store) (http.Handler, error) {
	usersSvc := users.NewService(store.Users(), auth.NewPasswordHasher(), logger)
	eventsSvc := events.NewService(store.Events(), store.Users(), logger)

	schema, err := graph.NewSchema(graph.NewResolver(eventsSvc, usersSvc, logger))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(store))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/graphql", methodMux(map[string]http.Handler{
		http.MethodGet:  handlers.GraphiQL(),
		http.MethodPost: &relay.Handler{Schema: schema},
	}))

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler, nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
