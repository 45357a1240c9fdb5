// Package secret implements the SecretCipher port with AES-256-GCM keyed from
// a static passphrase.
//
// The passphrase is shared by the whole process and ships with its
// configuration, so this is obfuscation against casual inspection of stored
// values, not a confidentiality guarantee.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
)

// keySalt is fixed so the same passphrase always yields the same key.
var keySalt = []byte("socialhub.secret.v1")

// Compile-time interface satisfaction check.
var _ driven.SecretCipher = (*Cipher)(nil)

// Cipher obfuscates secret values with AES-256-GCM. Output is base64 of
// nonce (12 bytes) || ciphertext || tag.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives a 32-byte key from passphrase with Argon2id and returns a
// ready Cipher.
func NewCipher(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, errors.New("secret passphrase must not be empty")
	}

	key := argon2.IDKey([]byte(passphrase), keySalt, 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	return &Cipher{aead: gcm}, nil
}

// Obfuscate encrypts plaintext and returns the base64-encoded result.
func (c *Cipher) Obfuscate(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Reveal decrypts a value produced by Obfuscate.
func (c *Cipher) Reveal(obfuscated string) (string, error) {
	if obfuscated == model.PlaceholderMarker {
		return "", driven.ErrSecretUnavailable
	}

	data, err := base64.StdEncoding.DecodeString(obfuscated)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}
