package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
	"passvault/internal/domain/sharing"
)

type InvitationRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewInvitationRepository(db *Storage, log *slog.Logger) *InvitationRepository {
	return &InvitationRepository{
		db:  db,
		log: log.With("component", "invitation_repository"),
	}
}

const invitationColumns = `
	id, credential_id, from_user_id, to_user_id, to_email, created_at,
	accepted, rejected, responded_at`

func (r *InvitationRepository) Create(ctx context.Context, inv *sharing.Invitation) error {
	const query = `
		INSERT INTO share_invitations (` + invitationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var respondedAt any
	if inv.RespondedAt != nil {
		respondedAt = inv.RespondedAt.UTC()
	}

	_, err := r.db.writer(ctx).ExecContext(ctx, query,
		inv.ID, inv.CredentialID, inv.FromUserID, inv.ToUserID, inv.ToEmail, inv.CreatedAt.UTC(),
		inv.Accepted, inv.Rejected, respondedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sharing.ErrDuplicatePending
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

func (r *InvitationRepository) GetByID(ctx context.Context, id string) (sharing.Invitation, error) {
	const query = `SELECT ` + invitationColumns + ` FROM share_invitations WHERE id = ?`

	inv, err := scanInvitation(r.db.reader(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sharing.Invitation{}, sharing.ErrNotFound
		}
		return sharing.Invitation{}, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

func (r *InvitationRepository) HasPending(ctx context.Context, credentialID string, toUserID int) (bool, error) {
	var exists bool
	err := r.db.reader(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM share_invitations
			WHERE credential_id = ? AND to_user_id = ? AND accepted = 0 AND rejected = 0
		)`, credentialID, toUserID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending invitation: %w", err)
	}
	return exists, nil
}

func (r *InvitationRepository) ListPendingFor(ctx context.Context, toUserID int) ([]sharing.Invitation, error) {
	const query = `
		SELECT ` + invitationColumns + `
		FROM share_invitations
		WHERE to_user_id = ? AND accepted = 0 AND rejected = 0
		ORDER BY created_at DESC`

	rows, err := r.db.reader(ctx).QueryContext(ctx, query, toUserID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	items := make([]sharing.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		items = append(items, inv)
	}

	return items, rows.Err()
}

// Claim runs on the single writer connection and, inside a transaction, under
// the database write lock taken by BEGIN IMMEDIATE. A second claim sees the
// committed row and matches nothing.
func (r *InvitationRepository) Claim(ctx context.Context, id string, recipientID int, accept bool, at time.Time) (bool, error) {
	const query = `
		UPDATE share_invitations
		SET accepted = ?, rejected = ?, responded_at = ?
		WHERE id = ? AND to_user_id = ? AND accepted = 0 AND rejected = 0`

	res, err := r.db.writer(ctx).ExecContext(ctx, query, accept, !accept, at.UTC(), id, recipientID)
	if err != nil {
		return false, fmt.Errorf("claim invitation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func scanInvitation(row rowScanner) (sharing.Invitation, error) {
	var (
		inv         sharing.Invitation
		respondedAt sql.NullTime
	)

	err := row.Scan(
		&inv.ID, &inv.CredentialID, &inv.FromUserID, &inv.ToUserID, &inv.ToEmail,
		&inv.CreatedAt, &inv.Accepted, &inv.Rejected, &respondedAt,
	)
	if err != nil {
		return sharing.Invitation{}, err
	}

	inv.CreatedAt = inv.CreatedAt.UTC()
	if respondedAt.Valid {
		t := respondedAt.Time.UTC()
		inv.RespondedAt = &t
	}

	return inv, nil
}
