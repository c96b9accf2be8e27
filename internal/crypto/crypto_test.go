package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"simple token", "abc123"},
		{"jwt-shaped token", "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VyIjoxfQ.sig"},
		{"empty token", ""},
		{"long token", "a very long token string with enough characters to exercise the hash over multiple blocks of input data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := DeriveKey(tt.token)

			if len(key) != KeySize {
				t.Errorf("Key size = %d, want %d", len(key), KeySize)
			}

			// Same token must produce the same key.
			if !bytes.Equal(key, DeriveKey(tt.token)) {
				t.Error("Same token produced different keys")
			}

			// Different token must produce a different key.
			if bytes.Equal(key, DeriveKey(tt.token+"x")) {
				t.Error("Different tokens produced same key")
			}
		})
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := DeriveKey("session-token")

	tests := []struct {
		name      string
		plaintext string
	}{
		{"simple", "hello world"},
		{"empty", ""},
		{"json snapshot", `{"default":{"api_key":"secret-value"}}`},
		{"special chars", "!@#$%^&*()_+-={}[]|\\:\";<>?,./"},
		{"unicode", "héllo wörld 世界"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encrypted, err := Encrypt(tt.plaintext, key)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			if len(encrypted) <= len(tt.plaintext) {
				t.Error("Encrypted data should be longer than plaintext (nonce + auth tag)")
			}

			decrypted, err := Decrypt(encrypted, key)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}

			if decrypted != tt.plaintext {
				t.Errorf("Decrypted = %q, want %q", decrypted, tt.plaintext)
			}
		})
	}
}

func TestEncrypt_RandomNonce(t *testing.T) {
	key := DeriveKey("session-token")

	encrypted1, err := Encrypt("same plaintext", key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	encrypted2, err := Encrypt("same plaintext", key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if bytes.Equal(encrypted1, encrypted2) {
		t.Error("Same plaintext encrypted twice should differ (nonce randomization)")
	}
}

func TestEncrypt_InvalidKeySize(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
	}{
		{"nil key", nil},
		{"short key", make([]byte, 16)},
		{"long key", make([]byte, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Encrypt("data", tt.key); !errors.Is(err, ErrInvalidKeySize) {
				t.Errorf("Encrypt() error = %v, want ErrInvalidKeySize", err)
			}
			if _, err := Decrypt([]byte("whatever"), tt.key); !errors.Is(err, ErrInvalidKeySize) {
				t.Errorf("Decrypt() error = %v, want ErrInvalidKeySize", err)
			}
		})
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	key1 := DeriveKey("token-one")
	key2 := DeriveKey("token-two")

	encrypted, err := Encrypt("secret data", key1)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := Decrypt(encrypted, key2); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Decrypt() with wrong key error = %v, want ErrDecrypt", err)
	}
}

func TestDecrypt_Tampered(t *testing.T) {
	key := DeriveKey("session-token")

	encrypted, err := Encrypt("secret data", key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	// Flipping any single bit must fail authentication, never silently
	// return different plaintext.
	for i := 0; i < len(encrypted); i++ {
		corrupted := make([]byte, len(encrypted))
		copy(corrupted, encrypted)
		corrupted[i] ^= 0x01

		if _, err := Decrypt(corrupted, key); !errors.Is(err, ErrDecrypt) {
			t.Fatalf("Decrypt() of ciphertext with bit flipped at byte %d error = %v, want ErrDecrypt", i, err)
		}
	}
}

func TestDecrypt_Truncated(t *testing.T) {
	key := DeriveKey("session-token")

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"shorter than nonce", []byte("short")},
		{"nonce only", make([]byte, NonceSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decrypt(tt.data, key); !errors.Is(err, ErrDecrypt) {
				t.Errorf("Decrypt() error = %v, want ErrDecrypt", err)
			}
		})
	}
}
