package transport

import (
	"net/http"
	"strconv"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves categories, subcategories and offer tags
type CatalogHandler struct {
	categories    service.CategoryService
	subCategories service.SubCategoryService
	offerTags     service.OfferTagService
	logger        *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	categories service.CategoryService,
	subCategories service.SubCategoryService,
	offerTags service.OfferTagService,
	logger *zap.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		categories:    categories,
		subCategories: subCategories,
		offerTags:     offerTags,
		logger:        logger,
	}
}

// RegisterRoutes registers the public catalog reads and the admin mutations.
// Admin routes carry only the session; the services decide on the role.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{categoryId}", h.GetCategory)
		r.Get("/{categoryId}/subcategories", h.ListCategorySubCategories)
	})

	r.Route("/api/subcategories", func(r chi.Router) {
		r.Get("/", h.ListSubCategories)
		r.Get("/{subCategoryId}", h.GetSubCategory)
	})

	r.Get("/api/offer-tags", h.ListOfferTags)

	r.Put("/api/admin/categories", h.UpsertCategory)
	r.Delete("/api/admin/categories/{categoryId}", h.DeleteCategory)
	r.Put("/api/admin/subcategories", h.UpsertSubCategory)
	r.Delete("/api/admin/subcategories/{subCategoryId}", h.DeleteSubCategory)
	r.Put("/api/admin/offer-tags", h.UpsertOfferTag)
	r.Delete("/api/admin/offer-tags/{offerTagId}", h.DeleteOfferTag)
}

// ListCategories returns categories, newest first, optionally filtered by ?search=
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondServiceError(w, h.logger, err, "list categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "categoryId")
	if !ok {
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get category")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// ListCategorySubCategories feeds the dependent subcategory select of the product form
func (h *CatalogHandler) ListCategorySubCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "categoryId")
	if !ok {
		return
	}

	subCategories, err := h.subCategories.ListByCategory(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "list subcategories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, subCategories)
}

func (h *CatalogHandler) UpsertCategory(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input service.CategoryInput
	if err := middleware.DecodeJSON(r, &input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.categories.Upsert(r.Context(), session, input)
	if err != nil {
		respondServiceError(w, h.logger, err, "save category")
		return
	}

	h.logger.Info("Category saved", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "categoryId")
	if !ok {
		return
	}

	if err := h.categories.Delete(r.Context(), middleware.SessionFromContext(r.Context()), id); err != nil {
		respondServiceError(w, h.logger, err, "delete category")
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Category has been deleted."})
}

// ListSubCategories supports ?search=, or a sample through ?limit= and
// ?random=true. Sampling does not filter, so search cannot be combined with it.
func (h *CatalogHandler) ListSubCategories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	random, _ := strconv.ParseBool(query.Get("random"))
	search := query.Get("search")
	if search != "" && (limit > 0 || random) {
		middleware.RespondWithError(w, http.StatusBadRequest, "search cannot be combined with limit or random")
		return
	}

	var (
		subCategories []*domain.SubCategory
		err           error
	)
	if limit > 0 || random {
		subCategories, err = h.subCategories.Sample(r.Context(), limit, random)
	} else {
		subCategories, err = h.subCategories.List(r.Context(), search)
	}
	if err != nil {
		respondServiceError(w, h.logger, err, "list subcategories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, subCategories)
}

func (h *CatalogHandler) GetSubCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "subCategoryId")
	if !ok {
		return
	}

	subCategory, err := h.subCategories.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get subcategory")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, subCategory)
}

func (h *CatalogHandler) UpsertSubCategory(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input service.SubCategoryInput
	if err := middleware.DecodeJSON(r, &input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subCategory, err := h.subCategories.Upsert(r.Context(), session, input)
	if err != nil {
		respondServiceError(w, h.logger, err, "save subcategory")
		return
	}

	h.logger.Info("SubCategory saved", zap.String("sub_category_id", subCategory.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, subCategory)
}

func (h *CatalogHandler) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "subCategoryId")
	if !ok {
		return
	}

	if err := h.subCategories.Delete(r.Context(), middleware.SessionFromContext(r.Context()), id); err != nil {
		respondServiceError(w, h.logger, err, "delete subcategory")
		return
	}

	h.logger.Info("SubCategory deleted", zap.String("sub_category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "SubCategory has been deleted."})
}

func (h *CatalogHandler) ListOfferTags(w http.ResponseWriter, r *http.Request) {
	offerTags, err := h.offerTags.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list offer tags")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, offerTags)
}

func (h *CatalogHandler) UpsertOfferTag(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input service.OfferTagInput
	if err := middleware.DecodeJSON(r, &input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	offerTag, err := h.offerTags.Upsert(r.Context(), session, input)
	if err != nil {
		respondServiceError(w, h.logger, err, "save offer tag")
		return
	}

	h.logger.Info("Offer tag saved", zap.String("offer_tag_id", offerTag.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, offerTag)
}

func (h *CatalogHandler) DeleteOfferTag(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "offerTagId")
	if !ok {
		return
	}

	if err := h.offerTags.Delete(r.Context(), middleware.SessionFromContext(r.Context()), id); err != nil {
		respondServiceError(w, h.logger, err, "delete offer tag")
		return
	}

	h.logger.Info("Offer tag deleted", zap.String("offer_tag_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Offer tag has been deleted."})
}
