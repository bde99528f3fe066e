package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/marcos-nsantos/accounts-backend/internal/domain/entity"
)

func TestNewUser(t *testing.T) {
	u := entity.NewUser("  Jane.Doe@Example.COM ", "hash", "Jane", "Doe")

	assert.Equal(t, "jane.doe@example.com", u.Email)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, "Jane", u.FirstName)
	assert.Equal(t, "Doe", u.LastName)
	assert.Zero(t, u.ID)
	assert.True(t, u.CreatedAt.IsZero())
}

func TestIsUserSortField(t *testing.T) {
	for _, f := range entity.UserSortFields {
		assert.True(t, entity.IsUserSortField(f), f)
	}
	assert.False(t, entity.IsUserSortField("passwordHash"))
	assert.False(t, entity.IsUserSortField("ID"))
	assert.False(t, entity.IsUserSortField(""))
}

func TestRefreshToken_State(t *testing.T) {
	t.Run("fresh token is valid", func(t *testing.T) {
		rt := entity.NewRefreshToken(1, "tok", time.Now().Add(time.Hour))
		assert.True(t, rt.IsValid())
		assert.False(t, rt.IsExpired())
		assert.False(t, rt.IsRevoked())
	})

	t.Run("revoked token is invalid", func(t *testing.T) {
		rt := entity.NewRefreshToken(1, "tok", time.Now().Add(time.Hour))
		rt.Revoke()
		assert.False(t, rt.IsValid())
		assert.True(t, rt.IsRevoked())
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		rt := entity.NewRefreshToken(1, "tok", time.Now().Add(-time.Minute))
		assert.False(t, rt.IsValid())
		assert.True(t, rt.IsExpired())
	})
}
