package sealer

import (
	"context"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// hkdfInfo separates ChaCha20-Poly1305 keys from any other use of the same secret
const hkdfInfo = "cookiesession-chacha20poly1305-v1"

// ChaCha20Poly1305 is an alternative Provider for hosts without AES
// acceleration. Keys are derived with HKDF-SHA256 and tokens share the
// default IV || TAG || CIPHERTEXT layout, so sizes are identical.
type ChaCha20Poly1305 struct{}

// NewChaCha20Poly1305 returns the ChaCha20-Poly1305 provider.
func NewChaCha20Poly1305() ChaCha20Poly1305 {
	return ChaCha20Poly1305{}
}

func (ChaCha20Poly1305) Encrypt(ctx context.Context, plaintext, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	aead, err := newChaCha(key)
	if err != nil {
		return "", errors.Join(ErrEncrypt, err)
	}
	return seal(aead, plaintext)
}

func (ChaCha20Poly1305) Decrypt(ctx context.Context, token, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	aead, err := newChaCha(key)
	if err != nil {
		return "", errors.Join(ErrDecrypt, err)
	}
	return open(aead, token)
}

func newChaCha(key string) (cipher.AEAD, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	derived := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(key), nil, []byte(hkdfInfo)), derived); err != nil {
		return nil, err
	}
	return chacha20poly1305.New(derived)
}
