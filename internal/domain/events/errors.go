package events

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CreatorNotFoundError indicates that the user referenced by creatorId
// does not exist. By the time this is detected the event document has
// already been persisted; EventID identifies the orphan, which is left
// in place for out-of-band reconciliation rather than deleted (a
// compensating delete could remove a document a concurrent reader has
// already observed).
type CreatorNotFoundError struct {
	EventID   string
	CreatorID string
}

func (e CreatorNotFoundError) Error() string {
	return fmt.Sprintf("creator %s not found; event %s persisted without backlink", e.CreatorID, e.EventID)
}
