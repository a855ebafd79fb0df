package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// EncryptedPrefix marks values produced by TokenCipher
const EncryptedPrefix = "enc:v1:"

const hkdfInfo = "contentgen platform token encryption v1"

var ErrMalformedCiphertext = errors.New("security: malformed ciphertext")

// TokenCipher encrypts OAuth tokens at rest with XChaCha20-Poly1305.
// A cipher created with an empty secret passes values through unchanged,
// and Decrypt returns values without EncryptedPrefix as they are, so rows
// written before a key was configured stay readable.
type TokenCipher struct {
	aead interface {
		NonceSize() int
		Overhead() int
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

// NewTokenCipher derives a 256-bit key from secret with HKDF-SHA256
func NewTokenCipher(secret string) (*TokenCipher, error) {
	if secret == "" {
		return &TokenCipher{}, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("security: derive key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("security: init cipher: %w", err)
	}
	return &TokenCipher{aead: aead}, nil
}

// Enabled reports whether values are actually encrypted
func (c *TokenCipher) Enabled() bool {
	return c != nil && c.aead != nil
}

// Encrypt seals plain and returns EncryptedPrefix + base64(nonce|ciphertext)
func (c *TokenCipher) Encrypt(plain string) (string, error) {
	if !c.Enabled() || plain == "" {
		return plain, nil
	}

	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plain)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("security: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return EncryptedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt
func (c *TokenCipher) Decrypt(stored string) (string, error) {
	if !strings.HasPrefix(stored, EncryptedPrefix) {
		return stored, nil
	}
	if !c.Enabled() {
		return "", errors.New("security: encrypted value found but no token encryption key is configured")
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(stored, EncryptedPrefix))
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns+c.aead.Overhead() {
		return "", ErrMalformedCiphertext
	}

	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("security: open: %w", err)
	}
	return string(plain), nil
}
