package crypto

import (
	"context"
	"crypto/aes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"passvault/internal/domain/vaulterr"
)

const (
	AESKeyName  = "AES_KEY"
	AESIVName   = "AES_IV"
	HMACKeyName = "HMAC_KEY"

	KeySize        = 32
	IVSize         = aes.BlockSize
	MinHMACKeySize = 32
)

// Source resolves a named piece of base64 key material. An absent value is
// reported as an empty string with a nil error; errors mean the backing
// store itself could not be read.
type Source interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// EnvSource reads key material from the process environment through viper.
// Every lookup hits the environment again, so a changed value is picked up
// by the next cipher operation.
type EnvSource struct {
	v *viper.Viper
}

func NewEnvSource(v *viper.Viper) *EnvSource {
	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()
	return &EnvSource{v: v}
}

func (s *EnvSource) Lookup(_ context.Context, name string) (string, error) {
	return s.v.GetString(name), nil
}

// StaticSource serves fixed values. Used for injected key material and tests.
type StaticSource map[string]string

func (s StaticSource) Lookup(_ context.Context, name string) (string, error) {
	return s[name], nil
}

// KeyMaterial is the base64 encoded key set of one configuration epoch.
type KeyMaterial struct {
	Key     string
	IV      string
	HMACKey string
}

func (m KeyMaterial) Source() StaticSource {
	return StaticSource{
		AESKeyName:  m.Key,
		AESIVName:   m.IV,
		HMACKeyName: m.HMACKey,
	}
}

// KeyProvider decodes and validates key material on every call. Nothing is
// cached between calls.
type KeyProvider struct {
	source Source
}

func NewKeyProvider(source Source) *KeyProvider {
	return &KeyProvider{source: source}
}

// Key returns the 32 byte AES-256 key.
func (p *KeyProvider) Key(ctx context.Context) ([]byte, error) {
	return p.decode(ctx, AESKeyName, func(n int) bool { return n == KeySize }, "exactly 32 bytes")
}

// IV returns the 16 byte initialization vector used by the legacy format.
func (p *KeyProvider) IV(ctx context.Context) ([]byte, error) {
	return p.decode(ctx, AESIVName, func(n int) bool { return n == IVSize }, "exactly 16 bytes")
}

// HMACKey returns the integrity tag key. It must differ from the cipher key.
func (p *KeyProvider) HMACKey(ctx context.Context) ([]byte, error) {
	key, err := p.decode(ctx, HMACKeyName, func(n int) bool { return n >= MinHMACKeySize }, "at least 32 bytes")
	if err != nil {
		return nil, err
	}

	aesKey, err := p.Key(ctx)
	if err == nil && string(aesKey) == string(key) {
		return nil, vaulterr.Configuration("%s must differ from %s", HMACKeyName, AESKeyName)
	}

	return key, nil
}

func (p *KeyProvider) decode(ctx context.Context, name string, sizeOK func(int) bool, want string) ([]byte, error) {
	if p == nil || p.source == nil {
		return nil, vaulterr.Configuration("no key source configured for %s", name)
	}

	raw, err := p.source.Lookup(ctx, name)
	if err != nil {
		return nil, vaulterr.Configuration("read %s from key source: %v", name, err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, vaulterr.Configuration("%s is not set", name)
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, vaulterr.Configuration("%s is not valid base64", name)
	}

	if !sizeOK(len(decoded)) {
		return nil, vaulterr.Configuration("%s must decode to %s, got %d", name, want, len(decoded))
	}

	return decoded, nil
}

// GenerateKeyMaterial returns a fresh random key set.
func GenerateKeyMaterial() (KeyMaterial, error) {
	parts := make([][]byte, 3)
	for i, n := range []int{KeySize, IVSize, MinHMACKeySize} {
		parts[i] = make([]byte, n)
		if _, err := rand.Read(parts[i]); err != nil {
			return KeyMaterial{}, fmt.Errorf("generate key material: %w", err)
		}
	}

	return KeyMaterial{
		Key:     base64.StdEncoding.EncodeToString(parts[0]),
		IV:      base64.StdEncoding.EncodeToString(parts[1]),
		HMACKey: base64.StdEncoding.EncodeToString(parts[2]),
	}, nil
}
