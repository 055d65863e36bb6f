package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateToken("3f1c8a2e-5b7d-4e9f-8a1b-2c3d4e5f6a7b")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := service.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, "3f1c8a2e-5b7d-4e9f-8a1b-2c3d4e5f6a7b", userID)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken("user-1")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").ExtractUserID(token)
	assert.Error(t, err)
}

func TestJWTGarbageToken(t *testing.T) {
	service := NewJWTService("test-secret")

	_, err := service.ExtractUserID("not.a.token")
	assert.Error(t, err)

	_, err = service.ExtractUserID("")
	assert.Error(t, err)
}
