package keyring_test

import (
	"testing"

	"github.com/alkime/knobs/internal/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestToken(t *testing.T) {
	gokeyring.MockInit()

	assert.False(t, keyring.IsSet())
	_, err := keyring.Token()
	require.ErrorIs(t, err, keyring.ErrNotFound)
	assert.Empty(t, keyring.ResolveToken(""))

	require.Error(t, keyring.SetToken(""))
	require.NoError(t, keyring.SetToken("s3cret"))
	assert.True(t, keyring.IsSet())

	got, err := keyring.Token()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	assert.Equal(t, "s3cret", keyring.ResolveToken(""))
	assert.Equal(t, "env", keyring.ResolveToken("env"))

	require.NoError(t, keyring.ClearToken())
	require.NoError(t, keyring.ClearToken())
	assert.False(t, keyring.IsSet())
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, b := keyring.GenerateToken(), keyring.GenerateToken()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
