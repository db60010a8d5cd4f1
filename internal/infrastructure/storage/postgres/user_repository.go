package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
	"passvault/internal/domain/user"
)

func NewUserRepository(db *Storage, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log.With("component", "user_repository"),
	}
}

type UserRepository struct {
	db  *Storage
	log *slog.Logger
}

const userColumns = `id, login, COALESCE(email, ''), password_hash, created_at`

func (r *UserRepository) Create(ctx context.Context, login, email, passwordHash string) (int, error) {
	var userID int
	err := r.db.conn(ctx).QueryRow(ctx,
		`INSERT INTO users (login, email, password_hash) VALUES ($1, NULLIF($2, ''), $3) RETURNING id`,
		login, email, passwordHash).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, user.ErrLoginTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return userID, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE login = $1`, login)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (user.User, error) {
	var u user.User
	err := r.db.conn(ctx).QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Login, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("find user: %w", err)
	}

	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
