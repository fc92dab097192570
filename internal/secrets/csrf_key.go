package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the engine's secrets in the OS keychain.
	KeyringService = "recruit-engine"

	keyBytes = 32
)

// CSRFKey returns the signing key kept in the keychain under account,
// creating and storing one on first use.
func CSRFKey(account string) ([]byte, error) {
	if strings.TrimSpace(account) == "" {
		return nil, errors.New("keyring account name is empty")
	}

	stored, err := keyring.Get(KeyringService, account)
	if err == nil {
		key, decErr := hex.DecodeString(strings.TrimSpace(stored))
		if decErr == nil && len(key) == keyBytes {
			return key, nil
		}
	} else if !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("read csrf key: %w", err)
	}

	key := make([]byte, keyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := keyring.Set(KeyringService, account, hex.EncodeToString(key)); err != nil {
		return nil, fmt.Errorf("store csrf key: %w", err)
	}
	return key, nil
}

// EphemeralKey is used when no keychain is reachable; tokens then stop
// validating after a restart.
func EphemeralKey() []byte {
	key := make([]byte, keyBytes)
	_, _ = rand.Read(key)
	return key
}
