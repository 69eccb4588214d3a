package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	t.Run("creates active customer", func(t *testing.T) {
		user, err := NewUser(" asha ", " Asha@Example.com ", "password123")
		require.NoError(t, err)
		assert.Equal(t, "asha", user.Username)
		assert.Equal(t, "asha@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsStaff)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("password123"))
		assert.False(t, user.VerifyPassword("wrong-password"))
		assert.Empty(t, user.Permissions())

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUserRegistered, events[0].EventType())
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("asha", "asha@example.com", "short")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("asha", "not-an-email", "password123")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email format")
	})

	t.Run("rejects invalid username", func(t *testing.T) {
		_, err := NewUser("asha rao", "asha@example.com", "password123")
		require.Error(t, err)
	})
}

func TestUser_Staff(t *testing.T) {
	user, err := NewUser("admin", "admin@example.com", "password123")
	require.NoError(t, err)

	user.PromoteToStaff()
	assert.Equal(t, []string{PermissionAdmin}, user.Permissions())

	user.Deactivate()
	assert.False(t, user.CanLogin())
}

func TestUser_Profile(t *testing.T) {
	user, err := NewUser("asha", "asha@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "asha", user.FullName())

	user.SetName("Asha", "Rao")
	assert.Equal(t, "Asha Rao", user.FullName())

	now := time.Now()
	user.RecordLogin(now)
	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, now, *user.LastLoginAt)

	require.NoError(t, user.SetPassword("newpassword1"))
	assert.True(t, user.VerifyPassword("newpassword1"))
}
