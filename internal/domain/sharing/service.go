package sharing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/txn"
	"passvault/internal/domain/user"
	"passvault/internal/domain/vaulterr"
)

// Servicer is the invitation protocol as the HTTP layer sees it.
type Servicer interface {
	CreateInvitation(ctx context.Context, credentialID string, fromUserID int, toIdentifier, ipAddress string) (Invitation, error)
	ListShared(ctx context.Context, userID int) ([]SharedItem, error)
	Accept(ctx context.Context, invitationID string, recipientID int, ipAddress string) (credential.Credential, error)
	Reject(ctx context.Context, invitationID string, recipientID int, ipAddress string) error
}

// Deps are the collaborators of Service.
type Deps struct {
	Repo      Repository
	Tx        txn.Transactor
	Vault     Vault
	Directory Directory
	Audit     audit.Sink
}

// Service runs the invitation protocol.
type Service struct {
	repo  Repository
	tx    txn.Transactor
	vault Vault
	dir   Directory
	audit audit.Sink
	log   *slog.Logger
	now   func() time.Time
}

// NewService creates the sharing service.
func NewService(deps Deps, log *slog.Logger) *Service {
	return &Service{
		repo:  deps.Repo,
		tx:    deps.Tx,
		vault: deps.Vault,
		dir:   deps.Directory,
		audit: deps.Audit,
		log:   log.With("component", "sharing_service"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateInvitation offers credentialID, owned by fromUserID, to the user
// named by toIdentifier (login or email).
func (s *Service) CreateInvitation(ctx context.Context, credentialID string, fromUserID int, toIdentifier, ipAddress string) (Invitation, error) {
	toIdentifier = strings.TrimSpace(toIdentifier)
	if toIdentifier == "" {
		return Invitation{}, vaulterr.Validation("recipient is required")
	}

	var inv Invitation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.vault.GetOwned(ctx, credentialID, fromUserID)
		if err != nil {
			return err
		}

		recipient, err := s.dir.Resolve(ctx, toIdentifier)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return vaulterr.Validation("recipient %q not found", toIdentifier)
			}
			return fmt.Errorf("resolve recipient: %w", err)
		}
		if recipient.ID == fromUserID {
			return vaulterr.Validation("cannot share a credential with yourself")
		}

		pending, err := s.repo.HasPending(ctx, c.ID, recipient.ID)
		if err != nil {
			return fmt.Errorf("check pending invitations: %w", err)
		}
		if pending {
			return ErrDuplicatePending
		}

		inv = Invitation{
			ID:           uuid.NewString(),
			CredentialID: c.ID,
			FromUserID:   fromUserID,
			ToUserID:     recipient.ID,
			ToEmail:      recipient.Email,
			CreatedAt:    s.now(),
		}
		if err := s.repo.Create(ctx, &inv); err != nil {
			return err
		}

		return s.record(ctx, fromUserID, audit.ActionCreateShareInvitation, c.ID, c.Site, ipAddress)
	})
	if err != nil {
		return Invitation{}, err
	}

	s.log.Info("share invitation created", "invitation_id", inv.ID, "credential_id", credentialID, "from_user_id", fromUserID, "to_user_id", inv.ToUserID)

	return inv, nil
}

// ListShared returns pending invitations addressed to userID followed by the
// copies other users accepted from userID.
func (s *Service) ListShared(ctx context.Context, userID int) ([]SharedItem, error) {
	pending, err := s.repo.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}

	items := make([]SharedItem, 0, len(pending))
	for _, inv := range pending {
		item := SharedItem{
			Kind:         KindInvitation,
			InvitationID: inv.ID,
			CredentialID: inv.CredentialID,
			FromUserID:   inv.FromUserID,
			ToUserID:     inv.ToUserID,
			Status:       inv.Status(),
			CreatedAt:    inv.CreatedAt,
		}

		src, err := s.vault.GetByID(ctx, inv.CredentialID)
		switch {
		case err == nil:
			item.Site = src.Site
		case errors.Is(err, vaulterr.ErrNotFound):
			continue
		default:
			return nil, fmt.Errorf("load shared credential: %w", err)
		}

		items = append(items, item)
	}

	copies, err := s.vault.ListSharedFrom(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, c := range copies {
		items = append(items, SharedItem{
			Kind:         KindCredential,
			CredentialID: c.ID,
			Site:         c.Site,
			FromUserID:   userID,
			ToUserID:     c.UserID,
			Status:       StatusAccepted,
			CreatedAt:    c.CreatedAt,
			SharedAt:     c.SharedAt,
		})
	}

	return items, nil
}

// Accept claims the invitation and copies the credential into the
// recipient's vault in the same transaction. Of two concurrent accepts only
// one claim matches a pending row.
func (s *Service) Accept(ctx context.Context, invitationID string, recipientID int, ipAddress string) (credential.Credential, error) {
	var copied credential.Credential

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		inv, err := s.claim(ctx, invitationID, recipientID, true)
		if err != nil {
			return err
		}

		src, err := s.vault.GetByID(ctx, inv.CredentialID)
		if err != nil {
			return err
		}
		if src.UserID != inv.FromUserID {
			return credential.ErrNotFound
		}

		if copied, err = s.vault.CopyTo(ctx, src, recipientID); err != nil {
			return err
		}

		return s.record(ctx, recipientID, audit.ActionAcceptShareInvitation, copied.ID, copied.Site, ipAddress)
	})
	if err != nil {
		return credential.Credential{}, err
	}

	s.log.Info("share invitation accepted", "invitation_id", invitationID, "user_id", recipientID, "credential_id", copied.ID)

	return copied, nil
}

// Reject claims the invitation as rejected. No credential is created.
func (s *Service) Reject(ctx context.Context, invitationID string, recipientID int, ipAddress string) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		inv, err := s.claim(ctx, invitationID, recipientID, false)
		if err != nil {
			return err
		}

		// the source may be gone by now; the rejection still stands
		var site string
		src, err := s.vault.GetByID(ctx, inv.CredentialID)
		switch {
		case err == nil:
			site = src.Site
		case !errors.Is(err, vaulterr.ErrNotFound):
			return fmt.Errorf("load shared credential: %w", err)
		}

		return s.record(ctx, recipientID, audit.ActionRejectShareInvitation, inv.CredentialID, site, ipAddress)
	})
	if err != nil {
		return err
	}

	s.log.Info("share invitation rejected", "invitation_id", invitationID, "user_id", recipientID)

	return nil
}

// claim performs the conditional update. When nothing matched it re-reads
// the row only to tell a foreign or missing invitation from a terminal one.
func (s *Service) claim(ctx context.Context, invitationID string, recipientID int, accept bool) (Invitation, error) {
	ok, err := s.repo.Claim(ctx, invitationID, recipientID, accept, s.now())
	if err != nil {
		return Invitation{}, fmt.Errorf("claim invitation: %w", err)
	}

	inv, err := s.repo.GetByID(ctx, invitationID)
	if err != nil {
		return Invitation{}, err
	}
	if inv.ToUserID != recipientID {
		return Invitation{}, ErrNotFound
	}
	if !ok {
		return Invitation{}, ErrAlreadyResponded
	}

	return inv, nil
}

func (s *Service) record(ctx context.Context, userID int, action audit.Action, credentialID, site, ipAddress string) error {
	var username string
	if u, err := s.dir.FindByID(ctx, userID); err == nil {
		username = u.Login
	} else {
		s.log.Warn("audit username lookup failed", "user_id", userID, "error", err)
	}

	return s.audit.Record(ctx, audit.Entry{
		UserID:       userID,
		Username:     username,
		CredentialID: credentialID,
		Action:       action,
		IPAddress:    ipAddress,
		Site:         site,
	})
}
