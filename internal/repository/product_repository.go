package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this name and brand already exists")
)

const productColumns = `id, name, brand, description, price, inventory, category_id, created_at, updated_at`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindByCategoryName(ctx context.Context, category string) ([]*domain.Product, error)
	FindByBrand(ctx context.Context, brand string) ([]*domain.Product, error)
	FindByCategoryNameAndBrand(ctx context.Context, category, brand string) ([]*domain.Product, error)
	FindByName(ctx context.Context, name string) ([]*domain.Product, error)
	FindByBrandAndName(ctx context.Context, brand, name string) ([]*domain.Product, error)
	CountByBrandAndName(ctx context.Context, brand, name string) (int64, error)
	ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product. The unique index on (name, brand) is the
// authority on duplicates: concurrent inserts of the same pair surface as
// ErrProductAlreadyExists instead of a duplicate row.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, brand, description, price, inventory, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Brand,
		product.Description,
		product.Price,
		product.Inventory,
		product.CategoryID,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites every mutable column of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, brand = $3, description = $4, price = $5,
		    inventory = $6, category_id = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Brand,
		product.Description,
		product.Price,
		product.Inventory,
		product.CategoryID,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product and its images in one transaction. Images are
// exclusively owned by the product, so the cascade is explicit here rather
// than delegated to a foreign key action. The category row is left untouched.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete product images: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Brand,
		&product.Description,
		&product.Price,
		&product.Inventory,
		&product.CategoryID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindAll retrieves every product in the catalog
func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)
	return r.queryProducts(ctx, query)
}

// FindByCategoryName retrieves products whose category has the given name
func (r *productRepository) FindByCategoryName(ctx context.Context, category string) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.brand, p.description, p.price, p.inventory, p.category_id, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE c.name = $1
		ORDER BY p.created_at DESC
	`
	return r.queryProducts(ctx, query, category)
}

// FindByBrand retrieves products with the given brand
func (r *productRepository) FindByBrand(ctx context.Context, brand string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE brand = $1 ORDER BY created_at DESC`, productColumns)
	return r.queryProducts(ctx, query, brand)
}

// FindByCategoryNameAndBrand retrieves products matching both filters
func (r *productRepository) FindByCategoryNameAndBrand(ctx context.Context, category, brand string) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.brand, p.description, p.price, p.inventory, p.category_id, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE c.name = $1 AND p.brand = $2
		ORDER BY p.created_at DESC
	`
	return r.queryProducts(ctx, query, category, brand)
}

// FindByName retrieves products with the given name
func (r *productRepository) FindByName(ctx context.Context, name string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE name = $1 ORDER BY created_at DESC`, productColumns)
	return r.queryProducts(ctx, query, name)
}

// FindByBrandAndName retrieves products matching both brand and name
func (r *productRepository) FindByBrandAndName(ctx context.Context, brand, name string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE brand = $1 AND name = $2 ORDER BY created_at DESC`, productColumns)
	return r.queryProducts(ctx, query, brand, name)
}

// CountByBrandAndName counts products matching both brand and name
func (r *productRepository) CountByBrandAndName(ctx context.Context, brand, name string) (int64, error) {
	query := `SELECT COUNT(*) FROM products WHERE brand = $1 AND name = $2`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, brand, name).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// ExistsByNameAndBrand reports whether a product with the (name, brand) pair exists
func (r *productRepository) ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE name = $1 AND brand = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name, brand).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}

	return exists, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Brand,
			&product.Description,
			&product.Price,
			&product.Inventory,
			&product.CategoryID,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
