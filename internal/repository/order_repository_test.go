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

func newTestOrder(userID uuid.UUID, items ...*domain.OrderItem) *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, item := range items {
		item.OrderID = order.ID
		order.TotalPrice += item.UnitPrice * float64(item.Quantity)
		order.Items = append(order.Items, item)
	}
	return order
}

func TestOrderRepository_CreateFromCart(t *testing.T) {
	cleanCatalogTables(t)
	orderRepo := NewOrderRepository(testDB)
	cartRepo := NewCartRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	user := insertTestUser(t)
	category := insertTestCategory(t, "Electronics")
	product := newTestProduct(category.ID, "iPhone 15", "Apple")
	product.Inventory = 10
	require.NoError(t, productRepo.Create(ctx, product))

	require.NoError(t, cartRepo.Upsert(ctx, newTestCartItem(user.ID, product.ID, 3)))

	order := newTestOrder(user.ID, &domain.OrderItem{
		ID:        uuid.New(),
		ProductID: product.ID,
		Quantity:  3,
		UnitPrice: product.Price,
	})

	require.NoError(t, orderRepo.CreateFromCart(ctx, order))

	// Inventory was decremented inside the same transaction
	stored, err := productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Inventory)

	// The cart was emptied
	items, err := cartRepo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	found, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 3, found.Items[0].Quantity)
	assert.Equal(t, product.Price, found.Items[0].UnitPrice)
}

func TestOrderRepository_CreateFromCartInsufficientStock(t *testing.T) {
	cleanCatalogTables(t)
	orderRepo := NewOrderRepository(testDB)
	cartRepo := NewCartRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	user := insertTestUser(t)
	category := insertTestCategory(t, "Electronics")
	product := newTestProduct(category.ID, "iPhone 15", "Apple")
	product.Inventory = 2
	require.NoError(t, productRepo.Create(ctx, product))

	require.NoError(t, cartRepo.Upsert(ctx, newTestCartItem(user.ID, product.ID, 5)))

	order := newTestOrder(user.ID, &domain.OrderItem{
		ID:        uuid.New(),
		ProductID: product.ID,
		Quantity:  5,
		UnitPrice: product.Price,
	})

	err := orderRepo.CreateFromCart(ctx, order)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The whole transaction rolled back: no order, stock and cart untouched
	_, err = orderRepo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	stored, err := productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Inventory)

	items, err := cartRepo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrderRepository_FindByUserID(t *testing.T) {
	cleanCatalogTables(t)
	orderRepo := NewOrderRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	user := insertTestUser(t)
	other := insertTestUser(t)
	category := insertTestCategory(t, "Electronics")
	product := newTestProduct(category.ID, "iPhone 15", "Apple")
	product.Inventory = 10
	require.NoError(t, productRepo.Create(ctx, product))

	for i := 0; i < 2; i++ {
		order := newTestOrder(user.ID, &domain.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Quantity:  1,
			UnitPrice: product.Price,
		})
		require.NoError(t, orderRepo.CreateFromCart(ctx, order))
	}

	orders, err := orderRepo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, order := range orders {
		assert.Len(t, order.Items, 1)
	}

	orders, err = orderRepo.FindByUserID(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	cleanCatalogTables(t)
	orderRepo := NewOrderRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	user := insertTestUser(t)
	category := insertTestCategory(t, "Electronics")
	product := newTestProduct(category.ID, "iPhone 15", "Apple")
	require.NoError(t, productRepo.Create(ctx, product))

	order := newTestOrder(user.ID, &domain.OrderItem{
		ID:        uuid.New(),
		ProductID: product.ID,
		Quantity:  1,
		UnitPrice: product.Price,
	})
	require.NoError(t, orderRepo.CreateFromCart(ctx, order))

	require.NoError(t, orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped))

	found, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, found.Status)

	assert.ErrorIs(t, orderRepo.UpdateStatus(ctx, uuid.New(), domain.OrderStatusConfirmed), ErrOrderNotFound)
}
