package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "dashboard", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "dashboard", claims.Client)
}

func TestTokenRejected(t *testing.T) {
	expired, err := GenerateToken("secret", "dashboard", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken("secret", expired)
	assert.Error(t, err)

	valid, err := GenerateToken("secret", "dashboard", time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken("other", valid)
	assert.Error(t, err)
}
