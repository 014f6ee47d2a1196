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
	ErrImageNotFound = errors.New("image not found")
)

// ImageRepository defines the interface for image data access. Every image row
// belongs to exactly one product; DeleteByProductID is the cascade hook used
// when the owning product goes away.
type ImageRepository interface {
	Create(ctx context.Context, image *domain.Image) error
	Update(ctx context.Context, image *domain.Image) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProductID(ctx context.Context, productID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Image, error)
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.Image, error)
}

type imageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository(db *sql.DB) ImageRepository {
	return &imageRepository{db: db}
}

// Create inserts a new image row, binary payload included
func (r *imageRepository) Create(ctx context.Context, image *domain.Image) error {
	query := `
		INSERT INTO images (id, product_id, file_name, file_type, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		image.ID,
		image.ProductID,
		image.FileName,
		image.FileType,
		image.Data,
		image.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}

	return nil
}

// Update replaces the file name, type and payload of an existing image
func (r *imageRepository) Update(ctx context.Context, image *domain.Image) error {
	query := `
		UPDATE images
		SET file_name = $2, file_type = $3, data = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, image.ID, image.FileName, image.FileType, image.Data)
	if err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrImageNotFound
	}

	return nil
}

// Delete removes a single image by ID
func (r *imageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrImageNotFound
	}

	return nil
}

// DeleteByProductID removes all images belonging to a product. Deleting zero
// rows is fine; a product without images is a valid state.
func (r *imageRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to delete images for product: %w", err)
	}
	return nil
}

// FindByID retrieves an image by ID, payload included
func (r *imageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Image, error) {
	query := `
		SELECT id, product_id, file_name, file_type, data, created_at
		FROM images
		WHERE id = $1
	`

	image := &domain.Image{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&image.ID,
		&image.ProductID,
		&image.FileName,
		&image.FileType,
		&image.Data,
		&image.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to find image by ID: %w", err)
	}

	return image, nil
}

// FindByProductID retrieves the metadata of all images owned by a product.
// The binary payload is not loaded; it is only needed on download.
func (r *imageRepository) FindByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.Image, error) {
	query := `
		SELECT id, product_id, file_name, file_type, created_at
		FROM images
		WHERE product_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find images for product: %w", err)
	}
	defer rows.Close()

	images := []*domain.Image{}
	for rows.Next() {
		image := &domain.Image{}
		err := rows.Scan(
			&image.ID,
			&image.ProductID,
			&image.FileName,
			&image.FileType,
			&image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, image)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}
