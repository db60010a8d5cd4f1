package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"
	"passvault/internal/domain/user"
)

type UserRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewUserRepository(db *Storage, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log.With("component", "user_repository"),
	}
}

const userColumns = `id, login, COALESCE(email, ''), password_hash, created_at`

func (r *UserRepository) Create(ctx context.Context, login, email, passwordHash string) (int, error) {
	res, err := r.db.writer(ctx).ExecContext(ctx,
		`INSERT INTO users (login, email, password_hash, created_at) VALUES (?, NULLIF(?, ''), ?, ?)`,
		login, email, passwordHash, nowUTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, user.ErrLoginTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}
	return int(id), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE login = ?`, login)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower(?)`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (user.User, error) {
	var u user.User
	err := r.db.reader(ctx).QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Login, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("find user: %w", err)
	}

	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
