package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNotEnoughStock  = errors.New("not enough stock")
)

// CartLine is a cart item joined with its product and line total
type CartLine struct {
	Item      *domain.CartItem `json:"item"`
	Product   *domain.Product  `json:"product"`
	LineTotal float64          `json:"line_total"`
}

// CartService defines the interface for shopping cart business logic
type CartService interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)
	GetCart(ctx context.Context, userID uuid.UUID) ([]*CartLine, float64, error)
	UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddItem stages a product in the user's cart. Adding a product already in
// the cart bumps the quantity on the existing row. The requested quantity is
// checked against current stock; the authoritative check happens again at
// order placement.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Inventory < quantity {
		return nil, fmt.Errorf("%w: %s", ErrNotEnoughStock, product.Name)
	}

	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
}

// GetCart retrieves the user's cart lines with product details and the cart total
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]*CartLine, float64, error) {
	items, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	lines := make([]*CartLine, 0, len(items))
	var total float64
	for _, item := range items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load cart product: %w", err)
		}

		lineTotal := product.Price * float64(item.Quantity)
		total += lineTotal
		lines = append(lines, &CartLine{
			Item:      item,
			Product:   product,
			LineTotal: lineTotal,
		})
	}

	return lines, total, nil
}

// UpdateItemQuantity sets the quantity of an item already in the cart
func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.Inventory < quantity {
		return fmt.Errorf("%w: %s", ErrNotEnoughStock, product.Name)
	}

	return s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity)
}

// RemoveItem takes a product out of the cart
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return s.cartRepo.Remove(ctx, userID, productID)
}

// ClearCart empties the user's cart
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, userID)
}
