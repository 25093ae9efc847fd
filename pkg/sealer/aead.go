package sealer

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

const (
	// Algorithm names the default cipher.
	Algorithm = "aes-256-gcm"

	// KeySize is the derived key length in bytes (AES-256)
	KeySize = 32

	// IVSize is the nonce length placed at the start of every token
	IVSize = 12

	// TagSize is the authentication tag length that follows the IV
	TagSize = 16
)

// AESGCM is the default Provider. The signing key is hashed once with
// SHA-256 to obtain the AES-256 key, and tokens are laid out as
// base64(IV || TAG || CIPHERTEXT).
type AESGCM struct{}

// NewAESGCM returns the default provider.
func NewAESGCM() AESGCM {
	return AESGCM{}
}

func (AESGCM) Encrypt(ctx context.Context, plaintext, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	aead, err := newGCM(key)
	if err != nil {
		return "", errors.Join(ErrEncrypt, err)
	}
	return seal(aead, plaintext)
}

func (AESGCM) Decrypt(ctx context.Context, token, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	aead, err := newGCM(key)
	if err != nil {
		return "", errors.Join(ErrDecrypt, err)
	}
	return open(aead, token)
}

func newGCM(key string) (cipher.AEAD, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	derived := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(derived[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithTagSize(block, TagSize)
}

// seal encrypts plaintext and rearranges Go's CIPHERTEXT||TAG output into
// the IV || TAG || CIPHERTEXT wire layout.
func seal(aead cipher.AEAD, plaintext string) (string, error) {
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", errors.Join(ErrEncrypt, err)
	}

	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	ct, tag := sealed[:len(sealed)-TagSize], sealed[len(sealed)-TagSize:]

	out := make([]byte, 0, IVSize+len(sealed))
	out = append(out, iv...)
	out = append(out, tag...)
	out = append(out, ct...)

	return base64.StdEncoding.EncodeToString(out), nil
}

func open(aead cipher.AEAD, token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", errors.Join(ErrDecrypt, err)
	}
	if len(raw) < IVSize+TagSize {
		return "", ErrDecrypt
	}

	iv := raw[:IVSize]
	tag := raw[IVSize : IVSize+TagSize]
	ct := raw[IVSize+TagSize:]

	sealed := make([]byte, 0, len(ct)+TagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", errors.Join(ErrDecrypt, err)
	}
	return string(plaintext), nil
}
