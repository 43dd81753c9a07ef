// Package sealer encrypts and authenticates small blobs at rest with NaCl
// secretbox, under a key derived from a configured secret.
package sealer

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
	info      = "mecalink-admin-gateway/session"
)

var (
	ErrEmptySecret = errors.New("sealer: empty secret")
	ErrTampered    = errors.New("sealer: sealed data was modified or sealed with another key")
)

type Sealer struct {
	key [keySize]byte
}

func New(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	s := &Sealer{}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("hkdf -> %w", err)
	}

	return s, nil
}

// Seal returns nonce || box.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("rand.Read -> %w", err)
	}

	return secretbox.Seal(nonce[:], plain, &nonce, &s.key), nil
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrTampered
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, ErrTampered
	}

	return plain, nil
}
