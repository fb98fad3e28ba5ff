package session

import "context"

// Field names of the persisted Session Record.
const (
	FieldToken     = "token"
	FieldExpiresAt = "expires_at"
	FieldStage     = "stage"
)

// Storage is the medium a Session Record is persisted in: a flat key/value
// record kept under a namespace key. Only Store may talk to it.
type Storage interface {
	// Read returns every field stored under namespace. A missing record is an
	// empty map, not an error.
	Read(ctx context.Context, namespace string) (map[string]string, error)

	// Write sets and removes fields under namespace in a single atomic step.
	Write(ctx context.Context, namespace string, set map[string]string, unset ...string) error

	// Delete removes the whole record.
	Delete(ctx context.Context, namespace string) error
}
