package sqlite

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"
	"passvault/internal/domain/audit"
)

// AuditRepository only appends and reads.
type AuditRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewAuditRepository(db *Storage, log *slog.Logger) *AuditRepository {
	return &AuditRepository{
		db:  db,
		log: log.With("component", "audit_repository"),
	}
}

func (r *AuditRepository) Append(ctx context.Context, e audit.Entry) error {
	const query = `
		INSERT INTO audit_log (id, user_id, username, credential_id, action, occurred_at, ip_address, site)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?)`

	_, err := r.db.writer(ctx).ExecContext(ctx, query,
		e.ID, e.UserID, e.Username, e.CredentialID, string(e.Action), e.Timestamp.UTC(), e.IPAddress, e.Site)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context, f audit.Filter) ([]audit.Entry, error) {
	var (
		where []string
		args  []any
	)

	if f.UserID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(f.Action))
	}
	if f.CredentialID != "" {
		where = append(where, "credential_id = ?")
		args = append(args, f.CredentialID)
	}
	if !f.Since.IsZero() {
		where = append(where, "occurred_at >= ?")
		args = append(args, f.Since.UTC())
	}

	query := `
		SELECT id, user_id, username, COALESCE(credential_id, ''), action, occurred_at, ip_address, site
		FROM audit_log`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.Limit <= 0 {
		f.Limit = audit.DefaultLimit
	}
	query += " ORDER BY occurred_at DESC, id LIMIT ?"
	args = append(args, f.Limit)

	rows, err := r.db.reader(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]audit.Entry, 0)
	for rows.Next() {
		var (
			e      audit.Entry
			action string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.CredentialID, &action, &e.Timestamp, &e.IPAddress, &e.Site); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = audit.Action(action)
		e.Timestamp = e.Timestamp.UTC()
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
