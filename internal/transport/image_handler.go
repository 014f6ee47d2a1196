package transport

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageHandler handles HTTP requests for product images
type ImageHandler struct {
	imageService  service.ImageService
	maxUploadSize int64
	logger        *zap.Logger
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService service.ImageService, maxUploadSize int64, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		imageService:  imageService,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// RegisterRoutes registers all image routes. Downloads are public; uploads,
// updates and deletes are admin-only.
func (h *ImageHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/images", func(r chi.Router) {
		r.Get("/{imageID}/download", h.DownloadImage)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/upload", h.UploadImages)
			r.Put("/{imageID}", h.UpdateImage)
			r.Delete("/{imageID}", h.DeleteImage)
		})
	})
}

// UploadImages stores one or more files for a product. The request is
// multipart form data with a product_id field and one or more files fields.
func (h *ImageHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	productID, err := uuid.Parse(r.FormValue("product_id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	files := r.MultipartForm.File["files"]
	dtos, err := h.imageService.SaveImages(r.Context(), files, productID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrInvalidImage):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to upload images", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to upload images")
		}
		return
	}

	h.logger.Info("Images uploaded",
		zap.String("product_id", productID.String()),
		zap.Int("count", len(dtos)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, dtos)
}

// DownloadImage streams the binary payload of an image
func (h *ImageHandler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := uuid.Parse(chi.URLParam(r, "imageID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image ID")
		return
	}

	image, err := h.imageService.GetImageByID(r.Context(), imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "image not found")
			return
		}
		h.logger.Error("Failed to download image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to download image")
		return
	}

	w.Header().Set("Content-Type", image.FileType)
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+image.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(image.Data)
}

// UpdateImage replaces the payload of an existing image. The request is
// multipart form data with a single file field.
func (h *ImageHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := uuid.Parse(chi.URLParam(r, "imageID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image ID")
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) != 1 {
		middleware.RespondWithError(w, http.StatusBadRequest, "exactly one file is required")
		return
	}

	image, err := h.imageService.UpdateImage(r.Context(), files[0], imageID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrImageNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "image not found")
		case errors.Is(err, service.ErrInvalidImage):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update image", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update image")
		}
		return
	}

	h.logger.Info("Image updated", zap.String("image_id", image.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, service.ImageDTO{
		ID:          image.ID,
		FileName:    image.FileName,
		FileType:    image.FileType,
		DownloadURL: service.ImageDownloadURL(image.ID),
	})
}

// DeleteImage removes a single image
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := uuid.Parse(chi.URLParam(r, "imageID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image ID")
		return
	}

	if err := h.imageService.DeleteImageByID(r.Context(), imageID); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "image not found")
			return
		}
		h.logger.Error("Failed to delete image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}

	h.logger.Info("Image deleted", zap.String("image_id", imageID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "image deleted"})
}
