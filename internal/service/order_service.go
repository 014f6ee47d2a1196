package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart     = errors.New("cannot place an order with an empty cart")
	ErrNotOrderOwner = errors.New("order belongs to a different user")
)

// OrderService defines the interface for order business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*domain.Order, error)
	GetOrderByID(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// PlaceOrder turns the user's cart into an order. Unit prices are snapshotted
// at placement time; inventory decrement, order insert and cart clearing run
// in one repository transaction so a stock shortfall aborts the whole order.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	items, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, item := range items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		orderItem := &domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		}
		order.TotalPrice += orderItem.UnitPrice * float64(orderItem.Quantity)
		order.Items = append(order.Items, orderItem)
	}

	if err := s.orderRepo.CreateFromCart(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByID retrieves an order; users may only read their own orders
func (s *orderService) GetOrderByID(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}

	return order, nil
}

// GetUserOrders lists the user's orders, newest first
func (s *orderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

// UpdateOrderStatus advances an order through its lifecycle
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	switch status {
	case domain.OrderStatusPending, domain.OrderStatusConfirmed, domain.OrderStatusShipped, domain.OrderStatusDelivered:
	default:
		return repository.ErrOrderInvalidStatus
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}
