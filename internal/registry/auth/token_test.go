package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	const secret = "test-secret"

	token, err := GenerateToken("clerk", []string{PermConfirmFee, PermDownload}, secret)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "clerk", claims.Username)
	assert.True(t, claims.Has(PermConfirmFee))
	assert.True(t, claims.Has(PermDownload))
	assert.False(t, claims.Has(PermDelete), "unlisted permissions are not granted")
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("clerk", nil, "right-secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "wrong-secret")
	assert.Error(t, err, "a token signed with another secret must not parse")
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "secret")
	assert.Error(t, err)
}
