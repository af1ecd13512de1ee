package club

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateClub(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hash, never the secret", func(t *testing.T) {
		// given
		service := NewClubService(NewStubClubRepository())

		// when
		created, err := service.CreateClub(ctx, "Robotics Club", "wd40")

		// then
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.NotEqual(t, "wd40", created.SecretHash)
		assert.NotContains(t, created.SecretHash, "wd40")
	})

	t.Run("requires a secret", func(t *testing.T) {
		service := NewClubService(NewStubClubRepository())

		_, err := service.CreateClub(ctx, "Robotics Club", "")
		assert.ErrorIs(t, err, ErrSecretRequired)
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		service := NewClubService(NewStubClubRepository())

		_, err := service.CreateClub(ctx, "Robotics Club", "wd40")
		assert.NoError(t, err)
		_, err = service.CreateClub(ctx, "Robotics Club", "other")
		assert.ErrorIs(t, err, ErrNameTaken)
	})
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts the right secret and refuses a wrong one", func(t *testing.T) {
		service := NewClubService(NewStubClubRepository())
		created, err := service.CreateClub(ctx, "Robotics Club", "wd40")
		assert.NoError(t, err)

		valid, err := service.Validate(ctx, created.ID, "wd40")
		assert.NoError(t, err)
		assert.True(t, valid)

		valid, err = service.Validate(ctx, created.ID, "guessed")
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("lookup by name works the same way", func(t *testing.T) {
		service := NewClubService(NewStubClubRepository())
		_, err := service.CreateClub(ctx, "Chess Club", "en-passant")
		assert.NoError(t, err)

		valid, err := service.ValidateByName(ctx, "Chess Club", "en-passant")
		assert.NoError(t, err)
		assert.True(t, valid)

		_, err = service.ValidateByName(ctx, "Ghost Club", "anything")
		assert.ErrorIs(t, err, ErrClubNotFound)
	})
}

func TestUpdateClub(t *testing.T) {
	ctx := context.Background()

	t.Run("rename without a new secret keeps the old one valid", func(t *testing.T) {
		// given
		service := NewClubService(NewStubClubRepository())
		created, err := service.CreateClub(ctx, "Robotics Club", "wd40")
		assert.NoError(t, err)

		// when
		updated, err := service.UpdateClub(ctx, created.ID, "Robotics Society", "")

		// then
		assert.NoError(t, err)
		assert.Equal(t, "Robotics Society", updated.Name)

		valid, err := service.Validate(ctx, created.ID, "wd40")
		assert.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("a new secret replaces the old one", func(t *testing.T) {
		service := NewClubService(NewStubClubRepository())
		created, err := service.CreateClub(ctx, "Robotics Club", "wd40")
		assert.NoError(t, err)

		_, err = service.UpdateClub(ctx, created.ID, "Robotics Club", "fresh")
		assert.NoError(t, err)

		valid, err := service.Validate(ctx, created.ID, "wd40")
		assert.NoError(t, err)
		assert.False(t, valid)

		valid, err = service.Validate(ctx, created.ID, "fresh")
		assert.NoError(t, err)
		assert.True(t, valid)
	})
}
