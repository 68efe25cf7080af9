package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// StoreInput is the submitted store form
type StoreInput struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name" validate:"required,min=2,max=50"`
	URL         string    `json:"url" validate:"required,min=2,max=50,urlslug"`
	Description string    `json:"description" validate:"required,min=30,max=500"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone" validate:"required,phone"`
	Logo        string    `json:"logo" validate:"required,url"`
	Cover       string    `json:"cover" validate:"required,url"`
	Featured    bool      `json:"featured"`
}

// StoreService defines the interface for store business logic
type StoreService interface {
	Upsert(ctx context.Context, session *domain.Session, input StoreInput) (*domain.Store, error)
	ListMine(ctx context.Context, session *domain.Session) ([]*domain.Store, error)
	GetMine(ctx context.Context, session *domain.Session, storeURL string) (*domain.Store, error)
	UpdateStatus(ctx context.Context, session *domain.Session, storeID uuid.UUID, status domain.StoreStatus) (*domain.Store, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
	validate  *validator.Validate
}

// NewStoreService creates a new instance of StoreService
func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{
		storeRepo: storeRepo,
		validate:  validation.Validator(),
	}
}

// Upsert creates a store for the calling seller or updates one they own.
// New stores start PENDING; updates never change the status.
func (s *storeService) Upsert(ctx context.Context, session *domain.Session, input StoreInput) (*domain.Store, error) {
	if err := requireSeller(session); err != nil {
		return nil, err
	}
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}

	if input.ID == uuid.Nil {
		input.ID = uuid.New()
	}

	candidate := &domain.Store{
		ID:          input.ID,
		Name:        input.Name,
		URL:         input.URL,
		Description: input.Description,
		Email:       input.Email,
		Phone:       input.Phone,
		Logo:        input.Logo,
		Cover:       input.Cover,
		Featured:    input.Featured,
		Status:      domain.StoreStatusPending,
		UserID:      session.UserID,
	}

	existing, err := s.storeRepo.FindConflict(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing store: %w", err)
	}
	if existing != nil {
		return nil, storeConflict(existing, candidate)
	}

	store, err := s.storeRepo.Upsert(ctx, candidate)
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, storeConflictOnField(dup.Field)
		}
		return nil, fmt.Errorf("failed to save store: %w", err)
	}

	return store, nil
}

func storeConflict(existing, candidate *domain.Store) *ConflictError {
	switch {
	case existing.Name == candidate.Name:
		return storeConflictOnField("name")
	case existing.URL == candidate.URL:
		return storeConflictOnField("url")
	case existing.Email == candidate.Email:
		return storeConflictOnField("email")
	default:
		return storeConflictOnField("phone")
	}
}

func storeConflictOnField(field string) *ConflictError {
	label := map[string]string{
		"name":  "name",
		"url":   "URL",
		"email": "email address",
		"phone": "phone number",
	}[field]
	if label == "" {
		label = field
	}
	return &ConflictError{Field: field, Message: "A store with the same " + label + " already exists"}
}

// ListMine returns the calling seller's stores in creation order
func (s *storeService) ListMine(ctx context.Context, session *domain.Session) ([]*domain.Store, error) {
	if err := requireSeller(session); err != nil {
		return nil, err
	}

	stores, err := s.storeRepo.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

// GetMine returns a store by url when the calling seller owns it. A store
// owned by someone else is reported as not found.
func (s *storeService) GetMine(ctx context.Context, session *domain.Session, storeURL string) (*domain.Store, error) {
	if err := requireSeller(session); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByURL(ctx, storeURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	if store.UserID != session.UserID {
		return nil, fmt.Errorf("failed to get store: %w", repository.ErrStoreNotFound)
	}

	return store, nil
}

// UpdateStatus moves a store through its moderation lifecycle. Only admins may call it.
func (s *storeService) UpdateStatus(ctx context.Context, session *domain.Session, storeID uuid.UUID, status domain.StoreStatus) (*domain.Store, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid(fmt.Sprintf("unknown store status %q", status))
	}

	store, err := s.storeRepo.UpdateStatus(ctx, storeID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update store status: %w", err)
	}
	return store, nil
}
