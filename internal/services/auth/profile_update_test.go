package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdateNormalize(t *testing.T) {
	name := "  Анна Иванова "
	avatar := "https://res.cloudinary.com/demo/avatar.jpg"

	update := profileUpdate{FullName: &name, AvatarURL: &avatar}
	require.True(t, update.normalize())

	assert.Equal(t, "Анна Иванова", *update.FullName)
	assert.Equal(t, avatar, *update.AvatarURL)
	assert.Nil(t, update.Email)
}

func TestProfileUpdateNormalizeEmpty(t *testing.T) {
	var update profileUpdate
	assert.False(t, update.normalize())
}
