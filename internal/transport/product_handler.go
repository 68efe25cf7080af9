package transport

import (
	"net/http"

	"marketplace/internal/form"
	"marketplace/internal/middleware"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler serves the seller product form and product reads
type ProductHandler struct {
	products service.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// RegisterRoutes registers the product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/seller/stores/{storeUrl}/products", h.ListByStore)
	r.Put("/api/seller/stores/{storeUrl}/products", h.Upsert)
	r.Get("/api/seller/stores/{storeUrl}/products/form", h.FormOptions)
	r.Delete("/api/seller/products/{productId}", h.Delete)
	r.Get("/api/products/{productId}", h.Get)
}

// ListByStore returns the products of one of the caller's stores
func (h *ProductHandler) ListByStore(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListByStore(
		r.Context(),
		middleware.SessionFromContext(r.Context()),
		chi.URLParam(r, "storeUrl"),
		r.URL.Query().Get("search"),
	)
	if err != nil {
		respondServiceError(w, h.logger, err, "list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// FormOptions returns the select options of the product form. With
// ?categoryId= the subcategory select is filled with that category's children.
func (h *ProductHandler) FormOptions(w http.ResponseWriter, r *http.Request) {
	categoryID := uuid.Nil
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid categoryId")
			return
		}
		categoryID = id
	}

	options, err := h.products.FormOptions(
		r.Context(),
		middleware.SessionFromContext(r.Context()),
		chi.URLParam(r, "storeUrl"),
		categoryID,
	)
	if err != nil {
		respondServiceError(w, h.logger, err, "load product form")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, options)
}

// Upsert creates a product with its first variant, or adds or updates a
// variant of an existing product. The submission is merged through a draft
// so blank colors and sizes never reach validation.
func (h *ProductHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var submitted form.ProductPayload
	if err := middleware.DecodeJSON(r, &submitted); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload := form.DraftFromPayload(submitted).Payload()

	product, err := h.products.Upsert(
		r.Context(),
		session,
		chi.URLParam(r, "storeUrl"),
		payload,
	)
	if err != nil {
		respondServiceError(w, h.logger, err, "save product")
		return
	}

	h.logger.Info("Product saved",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
	)
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "productId")
	if !ok {
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "productId")
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), middleware.SessionFromContext(r.Context()), id); err != nil {
		respondServiceError(w, h.logger, err, "delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product has been deleted."})
}
