// Package internal documents the eventbook server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, and routing
// - graph: GraphQL schema and resolvers
// - domain: business logic and domain models
// - storage: document store access and repositories (MongoDB)
// - auth, config, metrics: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
