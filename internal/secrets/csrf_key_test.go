package secrets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestCSRFKey_CreatedOnceThenReused(t *testing.T) {
	keyring.MockInit()

	first, err := CSRFKey("test:csrf")
	require.NoError(t, err)
	assert.Len(t, first, keyBytes)

	again, err := CSRFKey("test:csrf")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, keyring.Delete(KeyringService, "test:csrf"))
	fresh, err := CSRFKey("test:csrf")
	require.NoError(t, err)
	assert.NotEqual(t, first, fresh)
}

func TestCSRFKey_ReplacesCorruptValue(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(KeyringService, "test:csrf", "not-hex"))

	key, err := CSRFKey("test:csrf")
	require.NoError(t, err)
	assert.Len(t, key, keyBytes)
}

func TestCSRFKey_Errors(t *testing.T) {
	_, err := CSRFKey(" ")
	assert.Error(t, err)

	keyring.MockInitWithError(errors.New("no keychain"))
	_, err = CSRFKey("test:csrf")
	assert.Error(t, err)

	assert.Len(t, EphemeralKey(), keyBytes)
}
