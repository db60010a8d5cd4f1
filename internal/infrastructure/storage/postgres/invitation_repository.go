package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.conn(ctx).Exec(ctx, query,
		inv.ID, inv.CredentialID, inv.FromUserID, inv.ToUserID, inv.ToEmail, inv.CreatedAt,
		inv.Accepted, inv.Rejected, inv.RespondedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sharing.ErrDuplicatePending
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

func (r *InvitationRepository) GetByID(ctx context.Context, id string) (sharing.Invitation, error) {
	const query = `SELECT ` + invitationColumns + ` FROM share_invitations WHERE id = $1`

	inv, err := scanInvitation(r.db.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sharing.Invitation{}, sharing.ErrNotFound
		}
		return sharing.Invitation{}, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

func (r *InvitationRepository) HasPending(ctx context.Context, credentialID string, toUserID int) (bool, error) {
	var exists bool
	err := r.db.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM share_invitations
			WHERE credential_id = $1 AND to_user_id = $2 AND NOT accepted AND NOT rejected
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
		WHERE to_user_id = $1 AND NOT accepted AND NOT rejected
		ORDER BY created_at DESC`

	rows, err := r.db.conn(ctx).Query(ctx, query, toUserID)
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

// Claim relies on the row lock taken by UPDATE: a concurrent claim waits,
// then re-evaluates the pending predicate against the committed row and
// matches nothing.
func (r *InvitationRepository) Claim(ctx context.Context, id string, recipientID int, accept bool, at time.Time) (bool, error) {
	const query = `
		UPDATE share_invitations
		SET accepted = $3, rejected = NOT $3, responded_at = $4
		WHERE id = $1 AND to_user_id = $2 AND NOT accepted AND NOT rejected`

	tag, err := r.db.conn(ctx).Exec(ctx, query, id, recipientID, accept, at)
	if err != nil {
		return false, fmt.Errorf("claim invitation: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanInvitation(row pgx.Row) (sharing.Invitation, error) {
	var (
		inv         sharing.Invitation
		respondedAt *time.Time
	)

	err := row.Scan(
		&inv.ID, &inv.CredentialID, &inv.FromUserID, &inv.ToUserID, &inv.ToEmail,
		&inv.CreatedAt, &inv.Accepted, &inv.Rejected, &respondedAt,
	)
	if err != nil {
		return sharing.Invitation{}, err
	}

	inv.CreatedAt = inv.CreatedAt.UTC()
	if respondedAt != nil {
		t := respondedAt.UTC()
		inv.RespondedAt = &t
	}

	return inv, nil
}
