package crypto

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"passvault/internal/domain/vaulterr"
)

func b64(b byte, n int) string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{b}, n))
}

func testMaterial() KeyMaterial {
	return KeyMaterial{
		Key:     b64(0x11, KeySize),
		IV:      b64(0x22, IVSize),
		HMACKey: b64(0x33, MinHMACKeySize),
	}
}

type failingSource struct{}

func (failingSource) Lookup(context.Context, string) (string, error) {
	return "", errors.New("vault sealed")
}

func TestKeyProvider_Valid(t *testing.T) {
	p := NewKeyProvider(testMaterial().Source())
	ctx := context.Background()

	key, err := p.Key(ctx)
	require.NoError(t, err)
	assert.Len(t, key, KeySize)

	iv, err := p.IV(ctx)
	require.NoError(t, err)
	assert.Len(t, iv, IVSize)

	mac, err := p.HMACKey(ctx)
	require.NoError(t, err)
	assert.Len(t, mac, MinHMACKeySize)
}

func TestKeyProvider_Key_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "absent", value: ""},
		{name: "blank", value: "   "},
		{name: "not base64", value: "%%%not-base64%%%"},
		{name: "16 bytes instead of 32", value: b64(0x11, 16)},
		{name: "33 bytes", value: b64(0x11, 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMaterial()
			m.Key = tt.value
			p := NewKeyProvider(m.Source())

			_, err := p.Key(context.Background())
			assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
		})
	}
}

func TestKeyProvider_IV_WrongLength(t *testing.T) {
	m := testMaterial()
	m.IV = b64(0x22, 12)

	_, err := NewKeyProvider(m.Source()).IV(context.Background())
	assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
}

func TestKeyProvider_HMACKey(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		m := testMaterial()
		m.HMACKey = b64(0x33, 16)

		_, err := NewKeyProvider(m.Source()).HMACKey(context.Background())
		assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
	})

	t.Run("same as cipher key", func(t *testing.T) {
		m := testMaterial()
		m.HMACKey = m.Key

		_, err := NewKeyProvider(m.Source()).HMACKey(context.Background())
		assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
	})
}

func TestKeyProvider_SourceFailure(t *testing.T) {
	_, err := NewKeyProvider(failingSource{}).Key(context.Background())
	assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
}

func TestKeyProvider_NilSource(t *testing.T) {
	var p *KeyProvider
	_, err := p.Key(context.Background())
	assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
}

func TestEnvSource_ReadsFreshValues(t *testing.T) {
	t.Setenv(AESKeyName, b64(0x01, KeySize))
	p := NewKeyProvider(NewEnvSource(viper.New()))
	ctx := context.Background()

	first, err := p.Key(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), first[0])

	t.Setenv(AESKeyName, b64(0x02, KeySize))

	second, err := p.Key(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), second[0])
}

func TestGenerateKeyMaterial(t *testing.T) {
	first, err := GenerateKeyMaterial()
	require.NoError(t, err)

	p := NewKeyProvider(first.Source())
	ctx := context.Background()

	_, err = p.Key(ctx)
	require.NoError(t, err)
	_, err = p.IV(ctx)
	require.NoError(t, err)
	_, err = p.HMACKey(ctx)
	require.NoError(t, err)

	second, err := GenerateKeyMaterial()
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)
	assert.NotEqual(t, first.Key, first.HMACKey)
}
