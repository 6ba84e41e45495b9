package storage

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ErrSealedValue is returned when a stored value cannot be opened with the
// configured secret.
var ErrSealedValue = errors.New("storage: sealed value cannot be decrypted")

const sealedKeyInfo = "contacts-cli session storage v1"

// SealedKV encrypts every value with ChaCha20-Poly1305 before handing it to
// the wrapped KV. The storage key is bound as additional data, so a value
// copied under another key fails to open.
type SealedKV struct {
	inner KV
	aead  cipher.AEAD
}

// NewSealedKV derives a 256-bit key from secret with HKDF-SHA256 and wraps inner.
func NewSealedKV(inner KV, secret string) (*SealedKV, error) {
	if secret == "" {
		return nil, fmt.Errorf("sealed: secret is required")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(sealedKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("sealed: derive key: %w", err)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("sealed: init cipher: %w", err)
	}

	return &SealedKV{inner: inner, aead: aead}, nil
}

func (s *SealedKV) seal(key, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	// Prepend nonce to ciphertext
	ct := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return base64.RawStdEncoding.EncodeToString(ct), nil
}

func (s *SealedKV) open(key, stored string) (string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(stored)
	if err != nil || len(raw) < s.aead.NonceSize() {
		return "", ErrSealedValue
	}
	nonce, ct := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	pt, err := s.aead.Open(nil, nonce, ct, []byte(key))
	if err != nil {
		return "", ErrSealedValue
	}
	return string(pt), nil
}

// Get reads and decrypts the value stored under key.
func (s *SealedKV) Get(ctx context.Context, key string) (string, error) {
	stored, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return s.open(key, stored)
}

// Set encrypts value and stores it under key.
func (s *SealedKV) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return fmt.Errorf("sealed: %w", err)
	}
	return s.inner.Set(ctx, key, sealed)
}

// Remove deletes key from the wrapped KV.
func (s *SealedKV) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

// Apply seals every value and forwards the batch to the wrapped KV.
func (s *SealedKV) Apply(ctx context.Context, sets map[string]string, removes []string) error {
	sealed := make(map[string]string, len(sets))
	for k, v := range sets {
		sv, err := s.seal(k, v)
		if err != nil {
			return fmt.Errorf("sealed: %w", err)
		}
		sealed[k] = sv
	}
	return Apply(ctx, s.inner, sealed, removes)
}

// Close closes the wrapped KV.
func (s *SealedKV) Close() error {
	return s.inner.Close()
}
