package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcnr01/storefront-backend/internal/app/model"
	"github.com/tcnr01/storefront-backend/internal/db"
	"gorm.io/gorm"
)

func TestWishlistRepository(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewWishlistRepository(testDB)
	first := createTestProduct(t, testDB, "first", 1000, "men")
	second := createTestProduct(t, testDB, "second", 2000, "men")

	user := &model.User{Email: "wish@example.com", PasswordHash: "h", FirstName: "A", LastName: "B"}
	require.NoError(t, testDB.Create(user).Error)

	older := &model.WishlistItem{UserID: user.ID, ProductID: first.ID, CreatedAt: time.Now().Add(-time.Minute)}
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(&model.WishlistItem{UserID: user.ID, ProductID: second.ID}))

	t.Run("duplicate entry", func(t *testing.T) {
		err := repo.Create(&model.WishlistItem{UserID: user.ID, ProductID: first.ID})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("newest first", func(t *testing.T) {
		items, err := repo.FindByUserID(user.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, second.ID, items[0].ProductID)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := repo.Exists(user.ID, first.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(user.ID+1, first.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(user.ID, first.ID))
		assert.ErrorIs(t, repo.Delete(user.ID, first.ID), gorm.ErrRecordNotFound)
	})
}
