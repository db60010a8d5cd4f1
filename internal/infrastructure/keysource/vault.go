// Package keysource resolves vault key material from external secret stores.
package keysource

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"golang.org/x/exp/slog"
)

// VaultSource reads AES_KEY, AES_IV and HMAC_KEY from a single HashiCorp Vault
// KV v2 secret. The secret is read on every lookup, so rotating it in Vault
// takes effect on the next cipher operation.
type VaultSource struct {
	client *api.Client
	path   string
	log    *slog.Logger
}

func NewVaultSource(address, token, mountPath, dataPath string, log *slog.Logger) (*VaultSource, error) {
	if address == "" {
		return nil, fmt.Errorf("vault address is required")
	}

	config := api.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{Timeout: 10 * time.Second}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.Trim(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultSource{
		client: client,
		path:   fmt.Sprintf("%s/data/%s", mountPath, dataPath),
		log:    log.With("component", "vault_key_source"),
	}, nil
}

// Lookup returns the named field of the secret, or "" when the secret or the
// field does not exist.
func (s *VaultSource) Lookup(ctx context.Context, name string) (string, error) {
	secret, err := s.client.Logical().ReadWithContext(ctx, s.path)
	if err != nil {
		s.log.Error("Failed to read key material from Vault", slog.String("path", s.path), "err", err)
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}

	if secret == nil || secret.Data == nil {
		s.log.Warn("Key material secret not found in Vault", slog.String("path", s.path))
		return "", nil
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid data format in Vault response at %s", s.path)
	}

	value, ok := data[name]
	if !ok || value == nil {
		return "", nil
	}

	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("field %s at %s is not a string", name, s.path)
	}

	return str, nil
}

// Path is the logical KV v2 path the source reads.
func (s *VaultSource) Path() string {
	return s.path
}
