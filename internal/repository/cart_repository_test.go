package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTestUser(t *testing.T) *domain.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FirstName:    "Test",
		LastName:     "User",
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewUserRepository(testDB).Create(context.Background(), user))
	return user
}

func newTestCartItem(userID, productID uuid.UUID, quantity int) *domain.CartItem {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCartRepository_UpsertAccumulates(t *testing.T) {
	cleanCatalogTables(t)
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	user := insertTestUser(t)
	category := insertTestCategory(t, "Electronics")
	product := newTestProduct(category.ID, "iPhone 15", "Apple")
	require.NoError(t, NewProductRepository(testDB).Create(ctx, product))

	require.NoError(t, repo.Upsert(ctx, newTestCartItem(user.ID, product.ID, 2)))

	// Second upsert of the same pair lands on the existing row
	require.NoError(t, repo.Upsert(ctx, newTestCartItem(user.ID, product.ID, 3)))

	item, err := repo.FindByUserAndProduct(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, err := repo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartRepository_UpdateQuantityAndRemove(t *testing.T) {
	cleanCatalogTables(t)
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	user := insertTestUser(t)
	category := insertTestCategory(t, "Electronics")
	product := newTestProduct(category.ID, "iPhone 15", "Apple")
	require.NoError(t, NewProductRepository(testDB).Create(ctx, product))

	require.NoError(t, repo.Upsert(ctx, newTestCartItem(user.ID, product.ID, 2)))

	require.NoError(t, repo.UpdateQuantity(ctx, user.ID, product.ID, 9))
	item, err := repo.FindByUserAndProduct(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, item.Quantity)

	assert.ErrorIs(t, repo.UpdateQuantity(ctx, user.ID, uuid.New(), 1), ErrCartItemNotFound)

	require.NoError(t, repo.Remove(ctx, user.ID, product.ID))
	_, err = repo.FindByUserAndProduct(ctx, user.ID, product.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	assert.ErrorIs(t, repo.Remove(ctx, user.ID, product.ID), ErrCartItemNotFound)
}

func TestCartRepository_Clear(t *testing.T) {
	cleanCatalogTables(t)
	repo := NewCartRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	user := insertTestUser(t)
	category := insertTestCategory(t, "Electronics")

	first := newTestProduct(category.ID, "iPhone 15", "Apple")
	second := newTestProduct(category.ID, "MacBook Pro", "Apple")
	require.NoError(t, productRepo.Create(ctx, first))
	require.NoError(t, productRepo.Create(ctx, second))

	require.NoError(t, repo.Upsert(ctx, newTestCartItem(user.ID, first.ID, 1)))
	require.NoError(t, repo.Upsert(ctx, newTestCartItem(user.ID, second.ID, 2)))

	require.NoError(t, repo.Clear(ctx, user.ID))

	items, err := repo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Clearing an already empty cart is a no-op
	assert.NoError(t, repo.Clear(ctx, user.ID))
}
