package crypto

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"passvault/internal/domain/vaulterr"
)

// Format identifies how a stored ciphertext was produced.
type Format string

const (
	// FormatLegacy is AES-256-CBC with PKCS7 padding under the deployment's
	// static IV. Identical passwords produce identical ciphertext.
	FormatLegacy Format = "legacy"
	// FormatV2 is AES-256-GCM with a random nonce per record, stored as
	// "v2:" + base64(nonce || sealed).
	FormatV2 Format = "v2"

	v2Prefix = "v2:"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatLegacy:
		return FormatLegacy, nil
	case FormatV2, "":
		return FormatV2, nil
	}
	return "", vaulterr.Configuration("unknown cipher format %q", s)
}

// FormatOf reports the format of a stored ciphertext.
func FormatOf(ciphertext string) Format {
	if strings.HasPrefix(ciphertext, v2Prefix) {
		return FormatV2
	}
	return FormatLegacy
}

// Encryptor encrypts credential secrets at rest and tags the ciphertext with
// an HMAC so tampering is caught before any decrypt is attempted.
type Encryptor struct {
	keys   *KeyProvider
	format Format
}

func NewEncryptor(keys *KeyProvider, format Format) *Encryptor {
	if format == "" {
		format = FormatV2
	}
	return &Encryptor{
		keys:   keys,
		format: format,
	}
}

func (e *Encryptor) Format() Format {
	return e.format
}

// Encrypt returns the base64 ciphertext of plaintext in the configured format.
func (e *Encryptor) Encrypt(ctx context.Context, plaintext string) (string, error) {
	key, err := e.keys.Key(ctx)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", vaulterr.Cipher("create cipher: %v", err)
	}

	if e.format == FormatLegacy {
		iv, err := e.keys.IV(ctx)
		if err != nil {
			return "", err
		}

		padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
		out := make([]byte, len(padded))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

		return base64.StdEncoding.EncodeToString(out), nil
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", vaulterr.Cipher("create GCM: %v", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return v2Prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt for either format regardless of the write format.
func (e *Encryptor) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	format := FormatOf(ciphertext)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, v2Prefix))
	if err != nil {
		return "", vaulterr.Cipher("ciphertext is not valid base64")
	}

	key, err := e.keys.Key(ctx)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", vaulterr.Cipher("create cipher: %v", err)
	}

	if format == FormatV2 {
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return "", vaulterr.Cipher("create GCM: %v", err)
		}

		nonceSize := gcm.NonceSize()
		if len(raw) < nonceSize+gcm.Overhead() {
			return "", vaulterr.Cipher("ciphertext too short")
		}

		plaintext, err := gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
		if err != nil {
			return "", vaulterr.Cipher("decrypt: authentication failed")
		}

		return string(plaintext), nil
	}

	iv, err := e.keys.IV(ctx)
	if err != nil {
		return "", err
	}

	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", vaulterr.Cipher("ciphertext is not a whole number of blocks")
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, raw)

	plaintext, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// ComputeIntegrityTag returns base64(HMAC-SHA256) over the stored ciphertext.
func (e *Encryptor) ComputeIntegrityTag(ctx context.Context, ciphertext string) (string, error) {
	key, err := e.keys.HMACKey(ctx)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(sign(key, ciphertext)), nil
}

// VerifyIntegrityTag compares tags in constant time. A malformed tag is a
// mismatch, not an error; errors are reserved for missing key material.
func (e *Encryptor) VerifyIntegrityTag(ctx context.Context, ciphertext, tag string) (bool, error) {
	key, err := e.keys.HMACKey(ctx)
	if err != nil {
		return false, err
	}

	given, err := base64.StdEncoding.DecodeString(tag)
	if err != nil {
		return false, nil
	}

	return hmac.Equal(sign(key, ciphertext), given), nil
}

func sign(key []byte, ciphertext string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(ciphertext))
	return mac.Sum(nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, vaulterr.Cipher("invalid padding")
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, vaulterr.Cipher("invalid padding")
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, vaulterr.Cipher("invalid padding")
		}
	}

	return data[:len(data)-n], nil
}

// SelfTest seals sample, verifies its tag and opens it again. It reads every
// piece of key material the configured format needs.
func (e *Encryptor) SelfTest(ctx context.Context, sample string) error {
	if _, err := e.keys.Key(ctx); err != nil {
		return err
	}
	if _, err := e.keys.HMACKey(ctx); err != nil {
		return err
	}
	if e.format == FormatLegacy {
		if _, err := e.keys.IV(ctx); err != nil {
			return err
		}
	}

	enc, err := e.Encrypt(ctx, sample)
	if err != nil {
		return err
	}

	tag, err := e.ComputeIntegrityTag(ctx, enc)
	if err != nil {
		return err
	}

	ok, err := e.VerifyIntegrityTag(ctx, enc, tag)
	if err != nil {
		return err
	}
	if !ok {
		return vaulterr.Integrity("self-test tag does not verify")
	}

	plain, err := e.Decrypt(ctx, enc)
	if err != nil {
		return err
	}
	if plain != sample {
		return vaulterr.Cipher("self-test round trip mismatch")
	}

	return nil
}
