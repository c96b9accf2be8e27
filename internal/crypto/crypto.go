package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the size of the encryption key (32 bytes for NaCl secretbox)
	KeySize = 32
	// NonceSize is the size of the nonce (24 bytes for NaCl secretbox)
	NonceSize = 24
)

var (
	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.New("encryption key must be 32 bytes")
	// ErrDecrypt covers wrong keys, truncated input and tampered ciphertext
	// alike; the cases are deliberately indistinguishable to the caller.
	ErrDecrypt = errors.New("decryption failed")
)

// DeriveKey derives a 32-byte key from a session token string using SHA-256.
// The same token always yields the same key, so a still-valid token can
// re-derive the key across process restarts without the key ever being
// stored.
func DeriveKey(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

// Encrypt encrypts plaintext using NaCl secretbox (authenticated encryption).
// A fresh random nonce is generated per call and prepended to the ciphertext,
// so two calls with the same inputs never produce the same output.
func Encrypt(plaintext string, key []byte) ([]byte, error) {
	boxKey, err := asBoxKey(key)
	if err != nil {
		return nil, err
	}

	var nonce [NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return secretbox.Seal(nonce[:], []byte(plaintext), &nonce, boxKey), nil
}

// Decrypt decrypts data produced by Encrypt. The nonce is expected at the
// front of the ciphertext. No partial plaintext is ever returned on failure.
func Decrypt(ciphertext []byte, key []byte) (string, error) {
	boxKey, err := asBoxKey(key)
	if err != nil {
		return "", err
	}

	if len(ciphertext) < NonceSize {
		return "", ErrDecrypt
	}

	var nonce [NonceSize]byte
	copy(nonce[:], ciphertext[:NonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[NonceSize:], &nonce, boxKey)
	if !ok {
		return "", ErrDecrypt
	}

	return string(plaintext), nil
}

func asBoxKey(key []byte) (*[KeySize]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidKeySize, len(key))
	}
	var boxKey [KeySize]byte
	copy(boxKey[:], key)
	return &boxKey, nil
}
