package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Sink is the only audit capability the vault services depend on.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// Recorder writes entries through the repository using the caller's context,
// so an entry recorded inside a transaction commits or rolls back with it.
type Recorder struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewRecorder creates a sink writing through repo.
func NewRecorder(repo Repository, log *slog.Logger) *Recorder {
	return &Recorder{
		repo: repo,
		log:  log.With("component", "audit_recorder"),
		now:  time.Now,
	}
}

// Record stamps and appends one entry on the caller's transaction.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if entry.Action == "" {
		return fmt.Errorf("audit entry without action")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now().UTC()
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		r.log.Error("audit write failed",
			"action", entry.Action,
			"user_id", entry.UserID,
			"credential_id", entry.CredentialID,
			"error", err)
		return fmt.Errorf("record audit entry %s: %w", entry.Action, err)
	}

	return nil
}
