package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
	"passvault/internal/domain/credential"
)

type CredentialRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewCredentialRepository(db *Storage, log *slog.Logger) *CredentialRepository {
	return &CredentialRepository{
		db:  db,
		log: log.With("component", "credential_repository"),
	}
}

const credentialColumns = `
	id, user_id, site, site_url, username, encrypted_password, integrity_hash,
	notes, is_shared, shared_from_user_id, created_at, updated_at, shared_at`

func (r *CredentialRepository) Create(ctx context.Context, c *credential.Credential) error {
	const query = `
		INSERT INTO credentials (` + credentialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.conn(ctx).Exec(ctx, query,
		c.ID, c.UserID, c.Site, c.SiteURL, c.Username, c.EncryptedPassword, c.IntegrityHash,
		c.Notes, c.IsShared, c.SharedFromUserID, c.CreatedAt, c.UpdatedAt, c.SharedAt)
	if err != nil {
		r.log.Error("failed to create credential", "user_id", c.UserID, "error", err)
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) GetByID(ctx context.Context, id string) (credential.Credential, error) {
	const query = `SELECT ` + credentialColumns + ` FROM credentials WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *CredentialRepository) GetOwned(ctx context.Context, id string, userID int) (credential.Credential, error) {
	const query = `SELECT ` + credentialColumns + ` FROM credentials WHERE id = $1 AND user_id = $2`
	return r.getOne(ctx, query, id, userID)
}

func (r *CredentialRepository) ListByUser(ctx context.Context, userID int) ([]credential.Credential, error) {
	const query = `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE user_id = $1
		ORDER BY site, created_at`
	return r.list(ctx, query, userID)
}

func (r *CredentialRepository) ListSharedFrom(ctx context.Context, userID int) ([]credential.Credential, error) {
	const query = `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE shared_from_user_id = $1 AND is_shared
		ORDER BY shared_at DESC`
	return r.list(ctx, query, userID)
}

func (r *CredentialRepository) Update(ctx context.Context, c credential.Credential) error {
	const query = `
		UPDATE credentials
		SET site = $3, site_url = $4, username = $5, encrypted_password = $6,
		    integrity_hash = $7, notes = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2`

	tag, err := r.db.conn(ctx).Exec(ctx, query,
		c.ID, c.UserID, c.Site, c.SiteURL, c.Username, c.EncryptedPassword,
		c.IntegrityHash, c.Notes, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return credential.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context, id string, userID int) error {
	tag, err := r.db.conn(ctx).Exec(ctx,
		`DELETE FROM credentials WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return credential.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) DeleteAllByUser(ctx context.Context, userID int) (int, error) {
	tag, err := r.db.conn(ctx).Exec(ctx, `DELETE FROM credentials WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete credentials: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *CredentialRepository) getOne(ctx context.Context, query string, args ...any) (credential.Credential, error) {
	c, err := scanCredential(r.db.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return credential.Credential{}, credential.ErrNotFound
		}
		return credential.Credential{}, fmt.Errorf("get credential: %w", err)
	}
	return c, nil
}

func (r *CredentialRepository) list(ctx context.Context, query string, args ...any) ([]credential.Credential, error) {
	rows, err := r.db.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	items := make([]credential.Credential, 0)
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		items = append(items, c)
	}

	return items, rows.Err()
}

func scanCredential(row pgx.Row) (credential.Credential, error) {
	var (
		c        credential.Credential
		sharedAt *time.Time
	)

	err := row.Scan(
		&c.ID, &c.UserID, &c.Site, &c.SiteURL, &c.Username, &c.EncryptedPassword,
		&c.IntegrityHash, &c.Notes, &c.IsShared, &c.SharedFromUserID,
		&c.CreatedAt, &c.UpdatedAt, &sharedAt,
	)
	if err != nil {
		return credential.Credential{}, err
	}

	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	if sharedAt != nil {
		t := sharedAt.UTC()
		c.SharedAt = &t
	}

	return c, nil
}
