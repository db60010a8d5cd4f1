package storage

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
	"passvault/internal/app/server/config"
)

func TestOpen_SQLite(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DB{Driver: config.DriverSQLite, DatabaseURI: "file:" + filepath.Join(t.TempDir(), "vault.db")}

	s, err := Open(context.Background(), cfg, log)
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Ping(context.Background()))
	assert.NotNil(t, s.Users)
	assert.NotNil(t, s.Sessions)
	assert.NotNil(t, s.Credentials)
	assert.NotNil(t, s.Invitations)
	assert.NotNil(t, s.Audit)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := Open(context.Background(), config.DB{Driver: "mysql"}, log)
	assert.Error(t, err)
}
