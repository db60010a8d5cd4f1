package audit

import "context"

// Repository has no update or delete: the trail is append-only.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, error)
}
