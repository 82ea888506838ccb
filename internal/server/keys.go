package server

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const minSecretLen = 16

// cookieKeys derives the signing and encryption keys of the session cookie
// from SESSION_SECRET. Each key gets its own HKDF info label.
func cookieKeys(secret string) (hashKey, blockKey []byte, err error) {
	if len(secret) < minSecretLen {
		return nil, nil, errors.New("session secret must be at least 16 bytes")
	}
	hashKey, err = derive(secret, "topodash session auth", 32)
	if err != nil {
		return nil, nil, err
	}
	blockKey, err = derive(secret, "topodash session encryption", 32)
	if err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}

func derive(secret, info string, n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, err
	}
	return key, nil
}
