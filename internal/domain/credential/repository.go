package credential

import "context"

// Repository reads and writes credential rows. Every method joins the
// transaction carried by ctx when there is one. Lookups and ownership
// filtered writes return ErrNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, c *Credential) error
	// GetByID has no ownership filter.
	GetByID(ctx context.Context, id string) (Credential, error)
	GetOwned(ctx context.Context, id string, userID int) (Credential, error)
	ListByUser(ctx context.Context, userID int) ([]Credential, error)
	// ListSharedFrom returns copies whose SharedFromUserID is userID.
	ListSharedFrom(ctx context.Context, userID int) ([]Credential, error)
	Update(ctx context.Context, c Credential) error
	Delete(ctx context.Context, id string, userID int) error
	DeleteAllByUser(ctx context.Context, userID int) (int, error)
}
