package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var (
	// ErrMissingKey is returned when no secret key has been configured
	ErrMissingKey = errors.New("source secret key is not configured")
	// ErrDecrypt is returned when a sealed value was tampered with or sealed under another key
	ErrDecrypt = errors.New("unable to decrypt secret")
)

// Box seals credentials (passwords, refresh tokens) before they are stored
type Box struct {
	key [32]byte
}

// NewBox derives a secretbox key from a passphrase of any length
func NewBox(passphrase string) (*Box, error) {
	if passphrase == "" {
		return nil, ErrMissingKey
	}
	return &Box{key: sha256.Sum256([]byte(passphrase))}, nil
}

// Seal encrypts plaintext; the random nonce is prepended to the output
func (b *Box) Seal(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &b.key), nil
}

func (b *Box) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &b.key)
	if !ok {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
