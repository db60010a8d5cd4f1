package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/txn"
	"passvault/internal/domain/user"
	"passvault/internal/domain/vaulterr"
)

// Servicer is the credential store as the HTTP layer sees it.
type Servicer interface {
	Add(ctx context.Context, userID int, in AddInput) (Credential, error)
	List(ctx context.Context, userID int) ([]Credential, error)
	GetByID(ctx context.Context, id string) (Credential, error)
	GetOwned(ctx context.Context, id string, userID int) (Credential, error)
	RetrievePassword(ctx context.Context, id string, userID int, ipAddress string) (string, error)
	Update(ctx context.Context, id string, userID int, in UpdateInput) (Credential, error)
	Delete(ctx context.Context, id string, userID int, ipAddress string) error
	DeleteAll(ctx context.Context, userID int, ipAddress string) (int, error)
	Share(ctx context.Context, id string, fromUserID int, toUsername, ipAddress string) (Credential, error)
}

// Deps are the collaborators of Service.
type Deps struct {
	Repo      Repository
	Tx        txn.Transactor
	Cipher    Cipher
	Directory Directory
	Audit     audit.Sink
	Policy    PasswordPolicy
}

// Service is the credential store. Each mutating or secret revealing call
// re-checks ownership and writes its audit entry in one transaction.
type Service struct {
	repo   Repository
	tx     txn.Transactor
	cipher Cipher
	dir    Directory
	audit  audit.Sink
	policy PasswordPolicy
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates the credential store.
func NewService(deps Deps, log *slog.Logger) *Service {
	return &Service{
		repo:   deps.Repo,
		tx:     deps.Tx,
		cipher: deps.Cipher,
		dir:    deps.Directory,
		audit:  deps.Audit,
		policy: deps.Policy,
		log:    log.With("component", "credential_service"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Add validates, encrypts and stores a credential, then audits AddCredential.
func (s *Service) Add(ctx context.Context, userID int, in AddInput) (Credential, error) {
	if err := s.validateAdd(in); err != nil {
		return Credential{}, err
	}

	enc, tag, err := s.seal(ctx, in.Password)
	if err != nil {
		return Credential{}, err
	}

	now := s.now()
	c := Credential{
		ID:                uuid.NewString(),
		UserID:            userID,
		Site:              strings.TrimSpace(in.Site),
		SiteURL:           in.SiteURL,
		Username:          strings.TrimSpace(in.Username),
		EncryptedPassword: enc,
		IntegrityHash:     tag,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, &c); err != nil {
			return fmt.Errorf("create credential: %w", err)
		}
		return s.record(ctx, userID, audit.ActionAddCredential, c.ID, c.Site, in.IPAddress)
	})
	if err != nil {
		s.log.Error("failed to add credential", "user_id", userID, "error", err)
		return Credential{}, err
	}

	s.log.Info("credential added", "credential_id", c.ID, "user_id", userID)

	return c, nil
}

// List returns the credentials owned by userID.
func (s *Service) List(ctx context.Context, userID int) ([]Credential, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list credentials", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return items, nil
}

// GetByID performs no ownership check. Callers compare UserID before
// exposing anything.
func (s *Service) GetByID(ctx context.Context, id string) (Credential, error) {
	return s.repo.GetByID(ctx, id)
}

// GetOwned is the ownership filtered lookup: a credential id alone is never
// enough.
func (s *Service) GetOwned(ctx context.Context, id string, userID int) (Credential, error) {
	return s.repo.GetOwned(ctx, id, userID)
}

// RetrievePassword verifies the integrity tag and decrypts the owned credential.
func (s *Service) RetrievePassword(ctx context.Context, id string, userID int, ipAddress string) (string, error) {
	var (
		plaintext string
		tampered  *Credential
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetOwned(ctx, id, userID)
		if err != nil {
			return err
		}

		plaintext, err = s.open(ctx, c)
		if err != nil {
			if errors.Is(err, vaulterr.ErrIntegrity) {
				tampered = &c
			}
			return err
		}

		return s.record(ctx, userID, audit.ActionRetrievePassword, c.ID, c.Site, ipAddress)
	})
	if err != nil {
		if tampered != nil {
			s.reportIntegrityFailure(ctx, *tampered, userID, ipAddress)
		}
		return "", err
	}

	return plaintext, nil
}

// Update overwrites the provided fields of an owned credential.
func (s *Service) Update(ctx context.Context, id string, userID int, in UpdateInput) (Credential, error) {
	if err := s.validateUpdate(in); err != nil {
		return Credential{}, err
	}

	var enc, tag string
	if in.Password != nil {
		var err error
		if enc, tag, err = s.seal(ctx, *in.Password); err != nil {
			return Credential{}, err
		}
	}

	var updated Credential
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetOwned(ctx, id, userID)
		if err != nil {
			return err
		}

		if in.Site != nil {
			c.Site = strings.TrimSpace(*in.Site)
		}
		if in.Username != nil {
			c.Username = strings.TrimSpace(*in.Username)
		}
		if in.SiteURL != nil {
			c.SiteURL = *in.SiteURL
		}
		if in.Notes != nil {
			c.Notes = *in.Notes
		}
		if in.Password != nil {
			c.EncryptedPassword = enc
			c.IntegrityHash = tag
		}
		c.UpdatedAt = s.now()

		if err := s.repo.Update(ctx, c); err != nil {
			return err
		}

		updated = c
		return s.record(ctx, userID, audit.ActionUpdateCredential, c.ID, c.Site, in.IPAddress)
	})
	if err != nil {
		return Credential{}, err
	}

	s.log.Info("credential updated", "credential_id", id, "user_id", userID, "password_changed", in.Password != nil)

	return updated, nil
}

// Delete removes an owned credential.
func (s *Service) Delete(ctx context.Context, id string, userID int, ipAddress string) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetOwned(ctx, id, userID)
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, id, userID); err != nil {
			return err
		}

		return s.record(ctx, userID, audit.ActionDeleteCredential, c.ID, c.Site, ipAddress)
	})
	if err != nil {
		return err
	}

	s.log.Info("credential deleted", "credential_id", id, "user_id", userID)

	return nil
}

// DeleteAll removes every credential the user owns and returns the count.
func (s *Service) DeleteAll(ctx context.Context, userID int, ipAddress string) (int, error) {
	return s.deleteAll(ctx, userID, audit.ActionDeleteAllVaultItems, ipAddress)
}

// AdminResetVault is DeleteAll issued by an operator rather than the owner.
func (s *Service) AdminResetVault(ctx context.Context, userID int) (int, error) {
	return s.deleteAll(ctx, userID, audit.ActionAdminVaultReset, "")
}

func (s *Service) deleteAll(ctx context.Context, userID int, action audit.Action, ipAddress string) (int, error) {
	var n int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if n, err = s.repo.DeleteAllByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete vault items: %w", err)
		}
		return s.record(ctx, userID, action, "", "", ipAddress)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("vault emptied", "user_id", userID, "deleted", n, "action", action)

	return n, nil
}

// Share copies a credential straight into another user's vault, without an
// invitation.
func (s *Service) Share(ctx context.Context, id string, fromUserID int, toUsername, ipAddress string) (Credential, error) {
	toUsername = strings.TrimSpace(toUsername)
	if toUsername == "" {
		return Credential{}, vaulterr.Validation("recipient is required")
	}

	var copied Credential
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		src, err := s.repo.GetOwned(ctx, id, fromUserID)
		if err != nil {
			return err
		}

		recipient, err := s.dir.FindByLogin(ctx, toUsername)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return vaulterr.NotFound("recipient")
			}
			return fmt.Errorf("find recipient: %w", err)
		}
		if recipient.ID == fromUserID {
			return vaulterr.Validation("cannot share a credential with yourself")
		}

		if copied, err = s.CopyTo(ctx, src, recipient.ID); err != nil {
			return err
		}

		return s.record(ctx, fromUserID, audit.ActionShareCredential, src.ID, src.Site, ipAddress)
	})
	if err != nil {
		return Credential{}, err
	}

	s.log.Info("credential shared", "credential_id", id, "copy_id", copied.ID, "from_user_id", fromUserID, "to_user_id", copied.UserID)

	return copied, nil
}

// CopyTo verifies and decrypts src, then stores a freshly encrypted copy
// owned by recipientID and flagged as shared from src's owner. It joins the
// caller's transaction and writes no audit entry of its own.
func (s *Service) CopyTo(ctx context.Context, src Credential, recipientID int) (Credential, error) {
	plaintext, err := s.open(ctx, src)
	if err != nil {
		if errors.Is(err, vaulterr.ErrIntegrity) {
			s.log.Error("INTEGRITY FAILURE on share source", "credential_id", src.ID, "owner_id", src.UserID)
		}
		return Credential{}, err
	}

	enc, tag, err := s.seal(ctx, plaintext)
	if err != nil {
		return Credential{}, err
	}

	now := s.now()
	from := src.UserID
	c := Credential{
		ID:                uuid.NewString(),
		UserID:            recipientID,
		Site:              src.Site,
		SiteURL:           src.SiteURL,
		Username:          src.Username,
		EncryptedPassword: enc,
		IntegrityHash:     tag,
		Notes:             src.Notes,
		IsShared:          true,
		SharedFromUserID:  &from,
		CreatedAt:         now,
		UpdatedAt:         now,
		SharedAt:          &now,
	}

	if err := s.repo.Create(ctx, &c); err != nil {
		return Credential{}, fmt.Errorf("create shared copy: %w", err)
	}

	return c, nil
}

// ListSharedFrom returns the copies other users hold of credentials shared
// by userID.
func (s *Service) ListSharedFrom(ctx context.Context, userID int) ([]Credential, error) {
	items, err := s.repo.ListSharedFrom(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shared credentials: %w", err)
	}
	return items, nil
}

func (s *Service) seal(ctx context.Context, plaintext string) (string, string, error) {
	enc, err := s.cipher.Encrypt(ctx, plaintext)
	if err != nil {
		return "", "", err
	}

	tag, err := s.cipher.ComputeIntegrityTag(ctx, enc)
	if err != nil {
		return "", "", err
	}

	return enc, tag, nil
}

// open refuses to decrypt unless the integrity tag verifies.
func (s *Service) open(ctx context.Context, c Credential) (string, error) {
	ok, err := s.cipher.VerifyIntegrityTag(ctx, c.EncryptedPassword, c.IntegrityHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrIntegrity
	}

	return s.cipher.Decrypt(ctx, c.EncryptedPassword)
}

func (s *Service) reportIntegrityFailure(ctx context.Context, c Credential, userID int, ipAddress string) {
	s.log.Error("INTEGRITY FAILURE: stored ciphertext does not match its tag",
		"credential_id", c.ID,
		"user_id", userID,
		"ip_address", ipAddress)

	if err := s.record(ctx, userID, audit.ActionIntegrityFailure, c.ID, c.Site, ipAddress); err != nil {
		s.log.Error("failed to audit integrity failure", "credential_id", c.ID, "error", err)
	}
}

func (s *Service) record(ctx context.Context, userID int, action audit.Action, credentialID, site, ipAddress string) error {
	return s.audit.Record(ctx, audit.Entry{
		UserID:       userID,
		Username:     s.username(ctx, userID),
		CredentialID: credentialID,
		Action:       action,
		IPAddress:    ipAddress,
		Site:         site,
	})
}

func (s *Service) username(ctx context.Context, userID int) string {
	if s.dir == nil {
		return ""
	}
	u, err := s.dir.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn("audit username lookup failed", "user_id", userID, "error", err)
		return ""
	}
	return u.Login
}
