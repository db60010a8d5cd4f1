package audit

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Servicer reads the audit trail.
type Servicer interface {
	List(ctx context.Context, filter Filter) ([]Entry, error)
}

// Service lists audit entries with bounded limits.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates the audit read service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "audit_service"),
	}
}

// List returns matching entries, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Entry, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultLimit
	case filter.Limit > MaxLimit:
		filter.Limit = MaxLimit
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error("failed to list audit entries", "user_id", filter.UserID, "error", err)
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	return entries, nil
}
