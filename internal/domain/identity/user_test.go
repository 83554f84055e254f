package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		user, err := NewUser(" Alice@Example.com ", "s3cretpass", RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, RoleCustomer, user.Role)
		assert.NotEqual(t, "s3cretpass", user.PasswordHash)
		assert.True(t, strings.HasPrefix(user.PasswordHash, "$2a$"))
		assert.False(t, user.IsAdmin())
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "s3cretpass", RoleCustomer)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("a@b.io", "short", RoleCustomer)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("a@b.io", "s3cretpass", Role("root"))
		assert.Error(t, err)
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	user, err := NewUser("admin@shop.io", "adminpass1", RoleAdmin)
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("adminpass1"))
	assert.False(t, user.VerifyPassword("wrong"))
	assert.True(t, user.IsAdmin())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleCustomer.IsValid())
	assert.False(t, Role("").IsValid())
}
