package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	credentialAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	credentialLength   = 8
)

// Generator produces the random local part and password for a new
// mailbox. Collisions are not checked; the provider rejects a taken
// address and the user can try again.
type Generator func() (local string, password string, err error)

// RandomCredentials returns an 8-character lowercase base-36 local part
// and password drawn from crypto/rand.
func RandomCredentials() (string, string, error) {
	local, err := randomString(credentialLength)
	if err != nil {
		return "", "", fmt.Errorf("generating local part: %w", err)
	}
	password, err := randomString(credentialLength)
	if err != nil {
		return "", "", fmt.Errorf("generating password: %w", err)
	}
	return local, password, nil
}

func randomString(n int) (string, error) {
	max := big.NewInt(int64(len(credentialAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = credentialAlphabet[idx.Int64()]
	}
	return string(b), nil
}
