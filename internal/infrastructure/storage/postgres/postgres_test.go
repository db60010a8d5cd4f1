package postgres

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
	"passvault/internal/app/server/config"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/sharing"
	"passvault/internal/domain/user"
	"passvault/internal/infrastructure/migration"
)

// Set PASSVAULT_TEST_POSTGRES_URI to a disposable database to run these.
const uriEnv = "PASSVAULT_TEST_POSTGRES_URI"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	uri := os.Getenv(uriEnv)
	if uri == "" {
		t.Skipf("%s not set", uriEnv)
	}

	cfg := &config.Config{DB: config.DB{Driver: config.DriverPostgres, DatabaseURI: uri}}
	require.NoError(t, migration.NewMigration(cfg, nil).Up())

	ctx := context.Background()
	s, err := New(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Pool().Exec(ctx, `TRUNCATE audit_log, share_invitations, credentials, sessions, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return s
}

func createCredential(t *testing.T, s *Storage, userID int) credential.Credential {
	t.Helper()

	now := time.Now().UTC()
	c := credential.Credential{
		ID:                uuid.NewString(),
		UserID:            userID,
		Site:              "github.com",
		Username:          "me",
		EncryptedPassword: "v2:abc",
		IntegrityHash:     "tag",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, NewCredentialRepository(s, discardLogger()).Create(context.Background(), &c))
	return c
}

func TestUsersAndCredentials(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	users := NewUserRepository(s, discardLogger())
	creds := NewCredentialRepository(s, discardLogger())

	alice, err := users.Create(ctx, "alice", "Alice@Example.com", "hash")
	require.NoError(t, err)
	_, err = users.Create(ctx, "alice", "", "hash")
	assert.ErrorIs(t, err, user.ErrLoginTaken)

	u, err := users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice, u.ID)

	c := createCredential(t, s, alice)
	got, err := creds.GetOwned(ctx, c.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, c.EncryptedPassword, got.EncryptedPassword)

	_, err = creds.GetOwned(ctx, c.ID, alice+1)
	assert.ErrorIs(t, err, credential.ErrNotFound)

	n, err := creds.DeleteAllByUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWithinTx_RollsBackWithAudit(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	users := NewUserRepository(s, discardLogger())
	creds := NewCredentialRepository(s, discardLogger())
	log := NewAuditRepository(s, discardLogger())

	alice, err := users.Create(ctx, "alice", "", "hash")
	require.NoError(t, err)
	c := createCredential(t, s, alice)

	boom := errors.New("boom")
	err = s.WithinTx(ctx, func(ctx context.Context) error {
		if err := creds.Delete(ctx, c.ID, alice); err != nil {
			return err
		}
		if err := log.Append(ctx, audit.Entry{ID: uuid.NewString(), UserID: alice, Action: audit.ActionDeleteCredential, Timestamp: time.Now().UTC()}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = creds.GetByID(ctx, c.ID)
	assert.NoError(t, err)

	entries, err := log.List(ctx, audit.Filter{UserID: alice})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInvitationClaim_ExactlyOnce(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	users := NewUserRepository(s, discardLogger())
	invs := NewInvitationRepository(s, discardLogger())

	alice, err := users.Create(ctx, "alice", "", "hash")
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "bob@example.com", "hash")
	require.NoError(t, err)
	c := createCredential(t, s, alice)

	inv := sharing.Invitation{
		ID:           uuid.NewString(),
		CredentialID: c.ID,
		FromUserID:   alice,
		ToUserID:     bob,
		ToEmail:      "bob@example.com",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, invs.Create(ctx, &inv))

	dup := inv
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, invs.Create(ctx, &dup), sharing.ErrDuplicatePending)

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(accept bool) {
			defer wg.Done()
			ok, err := invs.Claim(ctx, inv.ID, bob, accept, time.Now())
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)

	got, err := invs.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.NotEqual(t, sharing.StatusPending, got.Status())
}
