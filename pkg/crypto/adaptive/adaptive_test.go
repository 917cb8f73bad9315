package adaptive

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(0xC0 + i)
	}
	return key
}

func TestRoundTripBothCiphers(t *testing.T) {
	plaintext := []byte("layer weights go here")
	aad := []byte("ckpt-epoch-3")

	for _, ct := range []CipherType{CipherAESGCM, CipherChaCha20} {
		c, err := NewWithType(testKey(), ct)
		if err != nil {
			t.Fatalf("NewWithType(%s): %v", ct, err)
		}
		if c.Type() != ct {
			t.Fatalf("Type() = %s, want %s", c.Type(), ct)
		}

		sealed, err := c.Encrypt(plaintext, aad)
		if err != nil {
			t.Fatalf("Encrypt(%s): %v", ct, err)
		}
		if bytes.Contains(sealed, plaintext) {
			t.Fatalf("%s: ciphertext contains plaintext", ct)
		}

		opened, err := c.Decrypt(sealed, aad)
		if err != nil {
			t.Fatalf("Decrypt(%s): %v", ct, err)
		}
		if !bytes.Equal(opened, plaintext) {
			t.Fatalf("%s: round trip mismatch", ct)
		}
	}
}

func TestDecrypt_TamperDetected(t *testing.T) {
	c, err := New(testKey())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sealed, err := c.Encrypt([]byte("weights"), nil)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	sealed[len(sealed)-1] ^= 0x01
	if _, err := c.Decrypt(sealed, nil); err == nil {
		t.Fatal("Decrypt of tampered ciphertext: expected error")
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	c, err := New(testKey())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Decrypt([]byte{1, 2, 3}, nil); err != ErrCiphertextTooShort {
		t.Fatalf("Decrypt(short) = %v, want ErrCiphertextTooShort", err)
	}
}

func TestParseKey(t *testing.T) {
	good := hex.EncodeToString(testKey())
	key, err := ParseKey(good)
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if !bytes.Equal(key, testKey()) {
		t.Fatal("ParseKey: decoded key mismatch")
	}

	if _, err := ParseKey("zz"); err == nil {
		t.Fatal("ParseKey(non-hex): expected error")
	}
	if _, err := ParseKey("abcd"); err == nil {
		t.Fatal("ParseKey(short): expected error")
	}
}

func TestNewWithType_Unknown(t *testing.T) {
	if _, err := NewWithType(testKey(), "rot13"); err == nil {
		t.Fatal("NewWithType(rot13): expected error")
	}
}
