package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderRepository mirrors the store's transactional order placement:
// inventory decrement, order insert and cart clearing succeed or fail together.
type mockOrderRepository struct {
	orders   map[uuid.UUID]*domain.Order
	products *mockProductRepository
	cart     *mockCartRepository
}

func newMockOrderRepository(products *mockProductRepository, cart *mockCartRepository) *mockOrderRepository {
	return &mockOrderRepository{
		orders:   make(map[uuid.UUID]*domain.Order),
		products: products,
		cart:     cart,
	}
}

func (m *mockOrderRepository) CreateFromCart(ctx context.Context, order *domain.Order) error {
	for _, item := range order.Items {
		product, ok := m.products.products[item.ProductID]
		if !ok || product.Inventory < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}
	for _, item := range order.Items {
		m.products.products[item.ProductID].Inventory -= item.Quantity
	}
	copy := *order
	m.orders[order.ID] = &copy
	return m.cart.Clear(ctx, order.UserID)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copy := *order
	return &copy, nil
}

func (m *mockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	result := []*domain.Order{}
	for _, order := range m.orders {
		if order.UserID == userID {
			copy := *order
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func newTestOrderSetup(t *testing.T) (OrderService, CartService, *mockProductRepository, *mockOrderRepository, *domain.Product) {
	t.Helper()
	productRepo := newMockProductRepository(newMockImageRepository())
	cartRepo := newMockCartRepository()
	orderRepo := newMockOrderRepository(productRepo, cartRepo)

	product := &domain.Product{
		ID:         uuid.New(),
		Name:       "iPhone 15",
		Brand:      "Apple",
		Price:      999.99,
		Inventory:  10,
		CategoryID: uuid.New(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, productRepo.Create(context.Background(), product))

	return NewOrderService(orderRepo, cartRepo, productRepo),
		NewCartService(cartRepo, productRepo),
		productRepo, orderRepo, product
}

func TestOrderService_PlaceOrder(t *testing.T) {
	orderSvc, cartSvc, productRepo, _, product := newTestOrderSetup(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := cartSvc.AddItem(ctx, userID, product.ID, 3)
	require.NoError(t, err)

	order, err := orderSvc.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, userID, order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 999.99, order.Items[0].UnitPrice)
	assert.Equal(t, 999.99*3, order.TotalPrice)

	// Inventory decremented and the cart drained
	assert.Equal(t, 7, productRepo.products[product.ID].Inventory)

	lines, _, err := cartSvc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOrderService_PlaceOrderEmptyCart(t *testing.T) {
	orderSvc, _, _, _, _ := newTestOrderSetup(t)

	_, err := orderSvc.PlaceOrder(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_PriceSnapshotSurvivesLaterChanges(t *testing.T) {
	orderSvc, cartSvc, productRepo, _, product := newTestOrderSetup(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := cartSvc.AddItem(ctx, userID, product.ID, 1)
	require.NoError(t, err)

	order, err := orderSvc.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	// A price change after placement does not rewrite the order
	productRepo.products[product.ID].Price = 1.00

	stored, err := orderSvc.GetOrderByID(ctx, order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 999.99, stored.TotalPrice)
}

func TestOrderService_OwnershipCheck(t *testing.T) {
	orderSvc, cartSvc, _, _, product := newTestOrderSetup(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := cartSvc.AddItem(ctx, owner, product.ID, 1)
	require.NoError(t, err)

	order, err := orderSvc.PlaceOrder(ctx, owner)
	require.NoError(t, err)

	_, err = orderSvc.GetOrderByID(ctx, order.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOrderOwner)

	_, err = orderSvc.GetOrderByID(ctx, uuid.New(), owner)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderSvc, cartSvc, _, orderRepo, product := newTestOrderSetup(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := cartSvc.AddItem(ctx, userID, product.ID, 1)
	require.NoError(t, err)

	order, err := orderSvc.PlaceOrder(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, orderSvc.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusShipped))
	assert.Equal(t, domain.OrderStatusShipped, orderRepo.orders[order.ID].Status)

	assert.ErrorIs(t, orderSvc.UpdateOrderStatus(ctx, order.ID, "cancelled"), repository.ErrOrderInvalidStatus)
	assert.ErrorIs(t, orderSvc.UpdateOrderStatus(ctx, uuid.New(), domain.OrderStatusConfirmed), repository.ErrOrderNotFound)
}
