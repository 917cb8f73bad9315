package adaptive

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"runtime"
)

// CipherType identifies the cipher algorithm.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// KeySize is the required key length in bytes.
const KeySize = 32

// ErrCiphertextTooShort is returned when a ciphertext is shorter than
// the nonce prefix.
var ErrCiphertextTooShort = errors.New("adaptive: ciphertext too short")

// Cipher provides authenticated encryption.
type Cipher interface {
	// Type returns the cipher type.
	Type() CipherType

	// Encrypt seals plaintext, binding additionalData, and returns a
	// nonce-prefixed ciphertext.
	Encrypt(plaintext, additionalData []byte) ([]byte, error)

	// Decrypt opens a nonce-prefixed ciphertext.
	Decrypt(ciphertext, additionalData []byte) ([]byte, error)
}

// New creates a cipher with the given 32-byte key, selecting the
// algorithm best suited to the host hardware.
func New(key []byte) (Cipher, error) {
	if hasAESAcceleration() {
		return NewAESGCM(key)
	}
	return NewChaCha20(key)
}

// NewWithType creates a cipher of the specified type.
func NewWithType(key []byte, cipherType CipherType) (Cipher, error) {
	switch cipherType {
	case CipherAESGCM:
		return NewAESGCM(key)
	case CipherChaCha20:
		return NewChaCha20(key)
	default:
		return nil, errors.New("adaptive: unknown cipher type: " + string(cipherType))
	}
}

// ParseKey decodes a hex-encoded key as supplied in configuration.
func ParseKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.New("adaptive: key is not valid hex")
	}
	if len(key) != KeySize {
		return nil, errors.New("adaptive: key must be 32 bytes (64 hex characters)")
	}
	return key, nil
}

// hasAESAcceleration reports whether Go's crypto/aes is hardware
// accelerated on this architecture. amd64 uses AES-NI and arm64 the
// ARM crypto extensions; elsewhere ChaCha20 is faster.
func hasAESAcceleration() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

// baseCipher implements nonce handling shared by both algorithms.
type baseCipher struct {
	aead cipher.AEAD
}

func (c *baseCipher) encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	// Nonce is prepended so decryption needs no side channel.
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *baseCipher) decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < c.aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce := ciphertext[:c.aead.NonceSize()]
	return c.aead.Open(nil, nonce, ciphertext[c.aead.NonceSize():], additionalData)
}
