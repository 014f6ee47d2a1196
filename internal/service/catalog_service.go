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
	ErrInvalidProduct = errors.New("invalid product request")
)

// AddProductRequest carries the fields for creating a product
type AddProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Brand       string  `json:"brand" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Inventory   int     `json:"inventory" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
}

// UpdateProductRequest carries the fields for updating a product. Every
// scalar field overwrites the stored value unconditionally, zero values
// included; there is no partial-patch path.
type UpdateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Brand       string  `json:"brand" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Inventory   int     `json:"inventory" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
}

// CatalogService defines the interface for product catalog business logic
type CatalogService interface {
	AddProduct(ctx context.Context, req AddProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req UpdateProductRequest, productID uuid.UUID) (*domain.Product, error)
	DeleteProductByID(ctx context.Context, productID uuid.UUID) error
	GetProductByID(ctx context.Context, productID uuid.UUID) (*domain.Product, error)
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	GetProductsByBrand(ctx context.Context, brand string) ([]*domain.Product, error)
	GetProductsByCategoryAndBrand(ctx context.Context, category, brand string) ([]*domain.Product, error)
	GetProductsByName(ctx context.Context, name string) ([]*domain.Product, error)
	GetProductsByBrandAndName(ctx context.Context, brand, name string) ([]*domain.Product, error)
	CountProductsByBrandAndName(ctx context.Context, brand, name string) (int64, error)
	ConvertToDTO(ctx context.Context, product *domain.Product) (*ProductDTO, error)
	ConvertToDTOs(ctx context.Context, products []*domain.Product) ([]*ProductDTO, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	imageRepo    repository.ImageRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	imageRepo repository.ImageRepository,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		imageRepo:    imageRepo,
	}
}

// AddProduct creates a new product. The (name, brand) pair must be unique;
// the category is resolved by name and provisioned on first reference.
func (s *catalogService) AddProduct(ctx context.Context, req AddProductRequest) (*domain.Product, error) {
	if err := validateProductFields(req.Name, req.Brand, req.Price, req.Inventory); err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByNameAndBrand(ctx, req.Name, req.Brand)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing product: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s by %s", repository.ErrProductAlreadyExists, req.Name, req.Brand)
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Inventory:   req.Inventory,
		CategoryID:  category.ID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	// The existence check above can race with a concurrent create of the
	// same pair; the unique index on (name, brand) settles it.
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct overwrites every scalar field of an existing product with the
// request values and re-resolves the category by name, provisioning a new
// category when the name is unseen.
func (s *catalogService) UpdateProduct(ctx context.Context, req UpdateProductRequest, productID uuid.UUID) (*domain.Product, error) {
	if err := validateProductFields(req.Name, req.Brand, req.Price, req.Inventory); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Brand = req.Brand
	product.Description = req.Description
	product.Price = req.Price
	product.Inventory = req.Inventory
	product.CategoryID = category.ID
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProductByID removes a product and its images. The referenced
// category stays.
func (s *catalogService) DeleteProductByID(ctx context.Context, productID uuid.UUID) error {
	return s.productRepo.Delete(ctx, productID)
}

// GetProductByID retrieves a single product
func (s *catalogService) GetProductByID(ctx context.Context, productID uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}

// GetAllProducts retrieves the whole catalog
func (s *catalogService) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productRepo.FindAll(ctx)
}

// GetProductsByCategory retrieves products in the named category. An empty
// result is not an error.
func (s *catalogService) GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.productRepo.FindByCategoryName(ctx, category)
}

// GetProductsByBrand retrieves products with the given brand
func (s *catalogService) GetProductsByBrand(ctx context.Context, brand string) ([]*domain.Product, error) {
	return s.productRepo.FindByBrand(ctx, brand)
}

// GetProductsByCategoryAndBrand retrieves products matching both filters
func (s *catalogService) GetProductsByCategoryAndBrand(ctx context.Context, category, brand string) ([]*domain.Product, error) {
	return s.productRepo.FindByCategoryNameAndBrand(ctx, category, brand)
}

// GetProductsByName retrieves products with the given name
func (s *catalogService) GetProductsByName(ctx context.Context, name string) ([]*domain.Product, error) {
	return s.productRepo.FindByName(ctx, name)
}

// GetProductsByBrandAndName retrieves products matching both brand and name
func (s *catalogService) GetProductsByBrandAndName(ctx context.Context, brand, name string) ([]*domain.Product, error) {
	return s.productRepo.FindByBrandAndName(ctx, brand, name)
}

// CountProductsByBrandAndName counts products matching both brand and name
func (s *catalogService) CountProductsByBrandAndName(ctx context.Context, brand, name string) (int64, error) {
	return s.productRepo.CountByBrandAndName(ctx, brand, name)
}

// resolveCategory returns the category with the given name, creating it on
// first reference. Two concurrent first-references race to insert; the loser
// hits the unique index and re-reads the winner's row.
func (s *catalogService) resolveCategory(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	category = &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return s.categoryRepo.FindByName(ctx, name)
		}
		return nil, err
	}

	return category, nil
}

func validateProductFields(name, brand string, price float64, inventory int) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidProduct)
	}
	if brand == "" {
		return fmt.Errorf("%w: brand must not be empty", ErrInvalidProduct)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if inventory < 0 {
		return fmt.Errorf("%w: inventory must not be negative", ErrInvalidProduct)
	}
	return nil
}
