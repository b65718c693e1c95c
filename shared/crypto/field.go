package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrInvalidKey        = errors.New("encryption key must be 32 bytes for AES-256")
	ErrInvalidCiphertext = errors.New("ciphertext is too short or corrupted")
)

// FieldCrypto encrypts individual PII fields (patient name, address, MRID, phone)
// with AES-256-GCM. Every ciphertext carries its own random nonce, so equal
// plaintexts encrypt differently; use Hash for equality lookups.
type FieldCrypto struct {
	key []byte
}

// NewFieldCrypto creates a new FieldCrypto from a base64 encoded 32 byte key.
func NewFieldCrypto(keyBase64 string) (*FieldCrypto, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}

	if len(key) != 32 {
		return nil, ErrInvalidKey
	}

	return &FieldCrypto{key: key}, nil
}

func (c *FieldCrypto) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt returns the ciphertext with the nonce prepended.
// Empty plaintext encrypts to an empty slice.
func (c *FieldCrypto) Encrypt(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return []byte{}, nil
	}

	gcm, err := c.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Decrypt reverses Encrypt.
func (c *FieldCrypto) Decrypt(ciphertext []byte) (string, error) {
	if len(ciphertext) == 0 {
		return "", nil
	}

	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}

// Hash is a deterministic keyed HMAC-SHA256 of the trimmed, uppercased value.
// Used for uniqueness checks on encrypted identifiers such as MRID.
func (c *FieldCrypto) Hash(value string) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(strings.ToUpper(strings.TrimSpace(value))))
	return mac.Sum(nil)
}

// GenerateKey generates a random 32-byte key for AES-256 and returns it as base64
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
