package transport

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. Reads are public; mutations
// require an authenticated admin.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/count", h.CountProducts)
		r.Get("/{productID}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/", h.AddProduct)
			r.Put("/{productID}", h.UpdateProduct)
			r.Delete("/{productID}", h.DeleteProduct)
		})
	})
}

// ListProducts returns products filtered by any combination of the category,
// brand and name query parameters. No filters means the whole catalog. An
// empty result is a 200 with an empty list, not a 404.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		category = r.URL.Query().Get("category")
		brand    = r.URL.Query().Get("brand")
		name     = r.URL.Query().Get("name")
	)

	products, err := h.findProducts(r, category, brand, name)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	dtos, err := h.catalogService.ConvertToDTOs(r.Context(), products)
	if err != nil {
		h.logger.Error("Failed to convert products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dtos)
}

// GetProduct returns a single product as a DTO
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.catalogService.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	dto, err := h.catalogService.ConvertToDTO(r.Context(), product)
	if err != nil {
		h.logger.Error("Failed to convert product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, dto)
}

// CountProducts returns the number of products matching brand and name
func (h *ProductHandler) CountProducts(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("brand")
	name := r.URL.Query().Get("name")

	count, err := h.catalogService.CountProductsByBrandAndName(r.Context(), brand, name)
	if err != nil {
		h.logger.Error("Failed to count products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to count products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// AddProduct creates a new product
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req service.AddProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.AddProduct(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidProduct):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to add product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add product")
		}
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.String("brand", product.Brand),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct overwrites an existing product with the request values
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req service.UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), req, productID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrProductAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidProduct):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product and its images
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProductByID(r.Context(), productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", productID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductHandler) findProducts(r *http.Request, category, brand, name string) ([]*domain.Product, error) {
	ctx := r.Context()

	switch {
	case category != "" && brand != "":
		return h.catalogService.GetProductsByCategoryAndBrand(ctx, category, brand)
	case brand != "" && name != "":
		return h.catalogService.GetProductsByBrandAndName(ctx, brand, name)
	case category != "":
		return h.catalogService.GetProductsByCategory(ctx, category)
	case brand != "":
		return h.catalogService.GetProductsByBrand(ctx, brand)
	case name != "":
		return h.catalogService.GetProductsByName(ctx, name)
	default:
		return h.catalogService.GetAllProducts(ctx)
	}
}
