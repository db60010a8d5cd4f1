package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *CredentialRepository) Create(ctx context.Context, c *credential.Credential) error {
	const query = `
		INSERT INTO credentials (` + credentialColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var sharedAt any
	if c.SharedAt != nil {
		sharedAt = c.SharedAt.UTC()
	}

	_, err := r.db.writer(ctx).ExecContext(ctx, query,
		c.ID, c.UserID, c.Site, c.SiteURL, c.Username, c.EncryptedPassword, c.IntegrityHash,
		c.Notes, c.IsShared, c.SharedFromUserID, c.CreatedAt.UTC(), c.UpdatedAt.UTC(), sharedAt)
	if err != nil {
		r.log.Error("failed to create credential", "user_id", c.UserID, "error", err)
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) GetByID(ctx context.Context, id string) (credential.Credential, error) {
	const query = `SELECT ` + credentialColumns + ` FROM credentials WHERE id = ?`
	return r.getOne(ctx, query, id)
}

func (r *CredentialRepository) GetOwned(ctx context.Context, id string, userID int) (credential.Credential, error) {
	const query = `SELECT ` + credentialColumns + ` FROM credentials WHERE id = ? AND user_id = ?`
	return r.getOne(ctx, query, id, userID)
}

func (r *CredentialRepository) ListByUser(ctx context.Context, userID int) ([]credential.Credential, error) {
	const query = `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE user_id = ?
		ORDER BY site, created_at`
	return r.list(ctx, query, userID)
}

func (r *CredentialRepository) ListSharedFrom(ctx context.Context, userID int) ([]credential.Credential, error) {
	const query = `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE shared_from_user_id = ? AND is_shared = 1
		ORDER BY shared_at DESC`
	return r.list(ctx, query, userID)
}

func (r *CredentialRepository) Update(ctx context.Context, c credential.Credential) error {
	const query = `
		UPDATE credentials
		SET site = ?, site_url = ?, username = ?, encrypted_password = ?,
		    integrity_hash = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	res, err := r.db.writer(ctx).ExecContext(ctx, query,
		c.Site, c.SiteURL, c.Username, c.EncryptedPassword,
		c.IntegrityHash, c.Notes, c.UpdatedAt.UTC(), c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	return requireRow(res, credential.ErrNotFound)
}

func (r *CredentialRepository) Delete(ctx context.Context, id string, userID int) error {
	res, err := r.db.writer(ctx).ExecContext(ctx,
		`DELETE FROM credentials WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return requireRow(res, credential.ErrNotFound)
}

func (r *CredentialRepository) DeleteAllByUser(ctx context.Context, userID int) (int, error) {
	res, err := r.db.writer(ctx).ExecContext(ctx, `DELETE FROM credentials WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete credentials: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func (r *CredentialRepository) getOne(ctx context.Context, query string, args ...any) (credential.Credential, error) {
	c, err := scanCredential(r.db.reader(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return credential.Credential{}, credential.ErrNotFound
		}
		return credential.Credential{}, fmt.Errorf("get credential: %w", err)
	}
	return c, nil
}

func (r *CredentialRepository) list(ctx context.Context, query string, args ...any) ([]credential.Credential, error) {
	rows, err := r.db.reader(ctx).QueryContext(ctx, query, args...)
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

func scanCredential(row rowScanner) (credential.Credential, error) {
	var (
		c          credential.Credential
		sharedFrom sql.NullInt64
		sharedAt   sql.NullTime
	)

	err := row.Scan(
		&c.ID, &c.UserID, &c.Site, &c.SiteURL, &c.Username, &c.EncryptedPassword,
		&c.IntegrityHash, &c.Notes, &c.IsShared, &sharedFrom,
		&c.CreatedAt, &c.UpdatedAt, &sharedAt,
	)
	if err != nil {
		return credential.Credential{}, err
	}

	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	if sharedFrom.Valid {
		id := int(sharedFrom.Int64)
		c.SharedFromUserID = &id
	}
	if sharedAt.Valid {
		t := sharedAt.Time.UTC()
		c.SharedAt = &t
	}

	return c, nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
