package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoreStatus is the moderation state of a store
type StoreStatus string

const (
	StoreStatusPending  StoreStatus = "PENDING"
	StoreStatusActive   StoreStatus = "ACTIVE"
	StoreStatusBanned   StoreStatus = "BANNED"
	StoreStatusDisabled StoreStatus = "DISABLED"
)

// Valid reports whether s is one of the known statuses
func (s StoreStatus) Valid() bool {
	switch s {
	case StoreStatusPending, StoreStatusActive, StoreStatusBanned, StoreStatusDisabled:
		return true
	}
	return false
}

// Store is a seller's shop. Every store is owned by exactly one user.
type Store struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	URL           string      `json:"url" db:"url"`
	Description   string      `json:"description" db:"description"`
	Email         string      `json:"email" db:"email"`
	Phone         string      `json:"phone" db:"phone"`
	Logo          string      `json:"logo" db:"logo"`
	Cover         string      `json:"cover" db:"cover"`
	Featured      bool        `json:"featured" db:"featured"`
	Status        StoreStatus `json:"status" db:"status"`
	AverageRating float64     `json:"average_rating" db:"average_rating"`
	UserID        uuid.UUID   `json:"user_id" db:"user_id"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}
