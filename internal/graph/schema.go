package graph

import (
	graphql "github.com/graph-gophers/graphql-go"
)

// Schema declares the operation contracts. Requests whose shape does
// not satisfy these declarations are rejected by the engine before any
// resolver runs; resolvers may assume shape-valid input but still check
// value invariants (email uniqueness, creator existence, price range).
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	type Query {
		events: [Event!]!
		users: [User!]!
	}

	type Mutation {
		createEvent(input: EventInput!): Event!
		createUser(input: UserInput!): User!
	}

	type Event {
		id: ID!
		name: String!
		description: String!
		price: Float!
		date: String!
		creator: User!
	}

	type User {
		id: ID!
		email: String!
		password: String
		createdEvents: [Event!]!
	}

	input EventInput {
		name: String!
		description: String!
		price: Float!
		date: String!
		creatorId: ID!
	}

	input UserInput {
		email: String!
		password: String!
	}
`

func NewSchema(resolver *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(Schema, resolver)
}
