package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"passvault/internal/domain/vaulterr"
)

func newTestEncryptor(format Format) *Encryptor {
	return NewEncryptor(NewKeyProvider(testMaterial().Source()), format)
}

var samplePasswords = []string{
	"",
	"a",
	"Secret1!",
	"exactly16bytes!!",
	"пароль-with-unicode-🔐",
	strings.Repeat("long-password-", 64),
}

func TestEncryptor_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, format := range []Format{FormatLegacy, FormatV2} {
		enc := newTestEncryptor(format)
		for _, p := range samplePasswords {
			ct, err := enc.Encrypt(ctx, p)
			require.NoError(t, err)
			assert.NotEqual(t, p, ct)
			assert.Equal(t, format, FormatOf(ct))

			got, err := enc.Decrypt(ctx, ct)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		}
	}
}

func TestEncryptor_LegacyIsDeterministic(t *testing.T) {
	enc := newTestEncryptor(FormatLegacy)
	ctx := context.Background()

	a, err := enc.Encrypt(ctx, "Secret1!")
	require.NoError(t, err)
	b, err := enc.Encrypt(ctx, "Secret1!")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEncryptor_V2UsesFreshNonce(t *testing.T) {
	enc := newTestEncryptor(FormatV2)
	ctx := context.Background()

	a, err := enc.Encrypt(ctx, "Secret1!")
	require.NoError(t, err)
	b, err := enc.Encrypt(ctx, "Secret1!")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "v2:"))
}

func TestEncryptor_ReadsLegacyAfterFormatSwitch(t *testing.T) {
	ctx := context.Background()

	legacy, err := newTestEncryptor(FormatLegacy).Encrypt(ctx, "Secret1!")
	require.NoError(t, err)

	got, err := newTestEncryptor(FormatV2).Decrypt(ctx, legacy)
	require.NoError(t, err)
	assert.Equal(t, "Secret1!", got)
}

func TestEncryptor_Decrypt_Corrupted(t *testing.T) {
	ctx := context.Background()
	enc := newTestEncryptor(FormatLegacy)

	key, err := enc.keys.Key(ctx)
	require.NoError(t, err)
	iv, err := enc.keys.IV(ctx)
	require.NoError(t, err)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	// A block of zeros decrypts to a zero padding byte.
	badPadding := make([]byte, aes.BlockSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(badPadding, make([]byte, aes.BlockSize))

	v2, err := newTestEncryptor(FormatV2).Encrypt(ctx, "Secret1!")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(v2, "v2:"))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	tamperedV2 := "v2:" + base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name       string
		ciphertext string
	}{
		{name: "not base64", ciphertext: "***"},
		{name: "empty", ciphertext: ""},
		{name: "partial block", ciphertext: base64.StdEncoding.EncodeToString([]byte("short"))},
		{name: "bad padding", ciphertext: base64.StdEncoding.EncodeToString(badPadding)},
		{name: "v2 too short", ciphertext: "v2:" + base64.StdEncoding.EncodeToString([]byte("tiny"))},
		{name: "v2 tampered", ciphertext: tamperedV2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Decrypt(ctx, tt.ciphertext)
			assert.ErrorIs(t, err, vaulterr.ErrCipher)
		})
	}
}

func TestEncryptor_IntegrityTag(t *testing.T) {
	ctx := context.Background()

	for _, format := range []Format{FormatLegacy, FormatV2} {
		enc := newTestEncryptor(format)

		ct, err := enc.Encrypt(ctx, "Secret1!")
		require.NoError(t, err)
		tag, err := enc.ComputeIntegrityTag(ctx, ct)
		require.NoError(t, err)

		ok, err := enc.VerifyIntegrityTag(ctx, ct, tag)
		require.NoError(t, err)
		assert.True(t, ok)

		for i := 0; i < len(ct); i++ {
			for bit := 0; bit < 8; bit++ {
				flipped := []byte(ct)
				flipped[i] ^= 1 << bit

				ok, err := enc.VerifyIntegrityTag(ctx, string(flipped), tag)
				require.NoError(t, err)
				assert.False(t, ok, "flip byte %d bit %d went undetected", i, bit)
			}
		}
	}
}

func TestEncryptor_VerifyIntegrityTag_MalformedTag(t *testing.T) {
	enc := newTestEncryptor(FormatV2)
	ctx := context.Background()

	for _, tag := range []string{"", "not-base64!", base64.StdEncoding.EncodeToString([]byte("short"))} {
		ok, err := enc.VerifyIntegrityTag(ctx, "v2:AAAA", tag)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestEncryptor_ConfigurationErrors(t *testing.T) {
	ctx := context.Background()

	for _, value := range []string{"", "  ", b64(0x11, 16)} {
		m := testMaterial()
		m.Key = value

		for _, format := range []Format{FormatLegacy, FormatV2} {
			enc := NewEncryptor(NewKeyProvider(m.Source()), format)

			_, err := enc.Encrypt(ctx, "Secret1!")
			assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
		}
	}

	t.Run("absent from environment", func(t *testing.T) {
		enc := NewEncryptor(NewKeyProvider(NewEnvSource(viper.New())), FormatV2)
		_, err := enc.Encrypt(ctx, "Secret1!")
		assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
	})

	t.Run("legacy needs the IV", func(t *testing.T) {
		m := testMaterial()
		m.IV = ""

		_, err := NewEncryptor(NewKeyProvider(m.Source()), FormatLegacy).Encrypt(ctx, "Secret1!")
		assert.ErrorIs(t, err, vaulterr.ErrConfiguration)

		ct, err := NewEncryptor(NewKeyProvider(m.Source()), FormatV2).Encrypt(ctx, "Secret1!")
		require.NoError(t, err)
		assert.NotEmpty(t, ct)
	})

	t.Run("tag needs the hmac key", func(t *testing.T) {
		m := testMaterial()
		m.HMACKey = ""
		enc := NewEncryptor(NewKeyProvider(m.Source()), FormatV2)

		_, err := enc.ComputeIntegrityTag(ctx, "v2:AAAA")
		assert.ErrorIs(t, err, vaulterr.ErrConfiguration)

		_, err = enc.VerifyIntegrityTag(ctx, "v2:AAAA", "AAAA")
		assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("legacy")
	require.NoError(t, err)
	assert.Equal(t, FormatLegacy, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatV2, f)

	f, err = ParseFormat(" V2 ")
	require.NoError(t, err)
	assert.Equal(t, FormatV2, f)

	_, err = ParseFormat("rot13")
	assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
}

func TestEncryptor_SelfTest(t *testing.T) {
	ctx := context.Background()

	for _, format := range []Format{FormatLegacy, FormatV2} {
		assert.NoError(t, newTestEncryptor(format).SelfTest(ctx, "sample"), format)
	}

	noIV := testMaterial()
	noIV.IV = ""
	legacy := NewEncryptor(NewKeyProvider(noIV.Source()), FormatLegacy)
	assert.ErrorIs(t, legacy.SelfTest(ctx, "sample"), vaulterr.ErrConfiguration)

	v2 := NewEncryptor(NewKeyProvider(noIV.Source()), FormatV2)
	assert.NoError(t, v2.SelfTest(ctx, "sample"), "v2 never needs the IV")
}
