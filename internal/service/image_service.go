package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidImage = errors.New("invalid image upload")
)

// ImageService defines the interface for product image business logic
type ImageService interface {
	SaveImages(ctx context.Context, files []*multipart.FileHeader, productID uuid.UUID) ([]ImageDTO, error)
	GetImageByID(ctx context.Context, imageID uuid.UUID) (*domain.Image, error)
	UpdateImage(ctx context.Context, file *multipart.FileHeader, imageID uuid.UUID) (*domain.Image, error)
	DeleteImageByID(ctx context.Context, imageID uuid.UUID) error
}

type imageService struct {
	imageRepo     repository.ImageRepository
	productRepo   repository.ProductRepository
	maxUploadSize int64
}

// NewImageService creates a new instance of ImageService
func NewImageService(imageRepo repository.ImageRepository, productRepo repository.ProductRepository, maxUploadSize int64) ImageService {
	return &imageService{
		imageRepo:     imageRepo,
		productRepo:   productRepo,
		maxUploadSize: maxUploadSize,
	}
}

// SaveImages stores one or more uploaded files against an existing product
// and returns descriptors for the stored images. The product must exist;
// images cannot be orphaned at creation.
func (s *imageService) SaveImages(ctx context.Context, files []*multipart.FileHeader, productID uuid.UUID) ([]ImageDTO, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", ErrInvalidImage)
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	dtos := make([]ImageDTO, 0, len(files))
	for _, file := range files {
		data, fileType, err := s.readUpload(file)
		if err != nil {
			return nil, err
		}

		image := &domain.Image{
			ID:        uuid.New(),
			ProductID: productID,
			FileName:  file.Filename,
			FileType:  fileType,
			Data:      data,
			CreatedAt: time.Now(),
		}

		if err := s.imageRepo.Create(ctx, image); err != nil {
			return nil, err
		}

		dtos = append(dtos, ImageDTO{
			ID:          image.ID,
			FileName:    image.FileName,
			FileType:    image.FileType,
			DownloadURL: ImageDownloadURL(image.ID),
		})
	}

	return dtos, nil
}

// GetImageByID retrieves an image with its binary payload
func (s *imageService) GetImageByID(ctx context.Context, imageID uuid.UUID) (*domain.Image, error) {
	return s.imageRepo.FindByID(ctx, imageID)
}

// UpdateImage replaces the payload and metadata of an existing image
func (s *imageService) UpdateImage(ctx context.Context, file *multipart.FileHeader, imageID uuid.UUID) (*domain.Image, error) {
	image, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		return nil, err
	}

	data, fileType, err := s.readUpload(file)
	if err != nil {
		return nil, err
	}

	image.FileName = file.Filename
	image.FileType = fileType
	image.Data = data

	if err := s.imageRepo.Update(ctx, image); err != nil {
		return nil, err
	}

	return image, nil
}

// DeleteImageByID removes a single image
func (s *imageService) DeleteImageByID(ctx context.Context, imageID uuid.UUID) error {
	return s.imageRepo.Delete(ctx, imageID)
}

func (s *imageService) readUpload(file *multipart.FileHeader) ([]byte, string, error) {
	if file.Size > s.maxUploadSize {
		return nil, "", fmt.Errorf("%w: file %s exceeds maximum size", ErrInvalidImage, file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.maxUploadSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > s.maxUploadSize {
		return nil, "", fmt.Errorf("%w: file %s exceeds maximum size", ErrInvalidImage, file.Filename)
	}

	fileType := file.Header.Get("Content-Type")
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	return data, fileType, nil
}
