package transport

import (
	"net/http"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatusRequest is the admin payload that moves a store through its lifecycle
type StatusRequest struct {
	Status domain.StoreStatus `json:"status"`
}

// StoreHandler serves seller store management and admin moderation
type StoreHandler struct {
	stores service.StoreService
	logger *zap.Logger
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(stores service.StoreService, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{stores: stores, logger: logger}
}

// RegisterRoutes registers the seller and admin store routes
func (h *StoreHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/seller/stores", h.ListMine)
	r.Put("/api/seller/stores", h.Upsert)
	r.Get("/api/seller/stores/{storeUrl}", h.GetMine)
	r.Patch("/api/admin/stores/{storeId}/status", h.UpdateStatus)
}

// ListMine returns the caller's stores
func (h *StoreHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	stores, err := h.stores.ListMine(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, h.logger, err, "list stores")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stores)
}

// GetMine returns one of the caller's stores by URL
func (h *StoreHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.GetMine(r.Context(), middleware.SessionFromContext(r.Context()), chi.URLParam(r, "storeUrl"))
	if err != nil {
		respondServiceError(w, h.logger, err, "get store")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, store)
}

// Upsert creates a store or updates one the caller owns
func (h *StoreHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input service.StoreInput
	if err := middleware.DecodeJSON(r, &input); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.stores.Upsert(r.Context(), session, input)
	if err != nil {
		respondServiceError(w, h.logger, err, "save store")
		return
	}

	h.logger.Info("Store saved",
		zap.String("store_id", store.ID.String()),
		zap.String("store_url", store.URL),
	)
	middleware.RespondWithJSON(w, http.StatusOK, store)
}

// UpdateStatus lets an admin activate, ban or disable a store
func (h *StoreHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	storeID, ok := uuidParam(w, r, "storeId")
	if !ok {
		return
	}

	var req StatusRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.stores.UpdateStatus(r.Context(), session, storeID, req.Status)
	if err != nil {
		respondServiceError(w, h.logger, err, "update store status")
		return
	}

	h.logger.Info("Store status updated",
		zap.String("store_id", store.ID.String()),
		zap.String("status", string(store.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, store)
}
