// Package credentials encrypts and decrypts stored endpoint passwords.
package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"ferryman/internal/config"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize   = 32
	nonceSize = 24

	// PBKDF2Iterations is the work factor for password derived keys.
	PBKDF2Iterations = 100000
)

var (
	ErrNoKey         = errors.New("no encryption key configured")
	ErrInvalidKey    = errors.New("encryption key must be 32 bytes of base64")
	ErrMalformed     = errors.New("malformed ciphertext")
	ErrDecryptFailed = errors.New("decryption failed")
)

// Store seals secrets with NaCl secretbox. Ciphertexts are base64 of
// nonce || box.
type Store struct {
	key [keySize]byte
}

// New builds a store from the encryption section. A base64 key wins over
// a password, which is stretched with PBKDF2-SHA256.
func New(cfg config.EncryptionConfig) (*Store, error) {
	s := &Store{}
	switch {
	case cfg.Key != "":
		raw, err := base64.StdEncoding.DecodeString(cfg.Key)
		if err != nil || len(raw) != keySize {
			return nil, ErrInvalidKey
		}
		copy(s.key[:], raw)
	case cfg.Password != "":
		derived := pbkdf2.Key([]byte(cfg.Password), []byte(cfg.Salt), PBKDF2Iterations, keySize, sha256.New)
		copy(s.key[:], derived)
	default:
		return nil, ErrNoKey
	}
	return s, nil
}

// GenerateKey returns a fresh base64 key for the encryption.key setting.
func GenerateKey() (string, error) {
	var key [keySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key[:]), nil
}

func (s *Store) Encrypt(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. The empty string decrypts to
// itself so endpoints without a password need no ciphertext.
func (s *Store) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrMalformed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrDecryptFailed
	}
	return string(plain), nil
}

// Locked stands in for a Store when no key is configured. Endpoints
// without a password still work.
type Locked struct{}

func (Locked) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	return "", ErrNoKey
}
