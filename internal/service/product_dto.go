package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

// ProductDTO is the flattened client-facing representation of a product plus
// its image descriptors. It is built per request and never persisted.
type ProductDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Inventory   int        `json:"inventory"`
	CategoryID  uuid.UUID  `json:"category_id"`
	Images      []ImageDTO `json:"images"`
}

// ImageDTO describes one image owned by a product
type ImageDTO struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	DownloadURL string    `json:"download_url"`
}

// ConvertToDTO projects a product into its client representation, fetching
// the current image descriptors from the image store.
func (s *catalogService) ConvertToDTO(ctx context.Context, product *domain.Product) (*ProductDTO, error) {
	images, err := s.imageRepo.FindByProductID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product images: %w", err)
	}

	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Brand:       product.Brand,
		Description: product.Description,
		Price:       product.Price,
		Inventory:   product.Inventory,
		CategoryID:  product.CategoryID,
		Images:      make([]ImageDTO, 0, len(images)),
	}

	for _, image := range images {
		dto.Images = append(dto.Images, ImageDTO{
			ID:          image.ID,
			FileName:    image.FileName,
			FileType:    image.FileType,
			DownloadURL: ImageDownloadURL(image.ID),
		})
	}

	return dto, nil
}

// ConvertToDTOs projects a slice of products, one image lookup per product
func (s *catalogService) ConvertToDTOs(ctx context.Context, products []*domain.Product) ([]*ProductDTO, error) {
	dtos := make([]*ProductDTO, 0, len(products))
	for _, product := range products {
		dto, err := s.ConvertToDTO(ctx, product)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// ImageDownloadURL returns the path a client uses to fetch an image payload
func ImageDownloadURL(imageID uuid.UUID) string {
	return fmt.Sprintf("/api/images/%s/download", imageID)
}
