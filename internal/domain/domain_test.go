package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionHasRole(t *testing.T) {
	var none *Session
	assert.False(t, none.HasRole(RoleAdmin))

	seller := &Session{UserID: uuid.New(), Role: RoleSeller}
	assert.True(t, seller.HasRole(RoleSeller))
	assert.False(t, seller.HasRole(RoleAdmin))
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleSeller, RoleUser} {
		assert.True(t, role.Valid(), role)
	}
	assert.False(t, Role("").Valid())
	assert.False(t, Role("admin").Valid())
}

func TestStoreStatusValid(t *testing.T) {
	for _, status := range []StoreStatus{StoreStatusPending, StoreStatusActive, StoreStatusBanned, StoreStatusDisabled} {
		assert.True(t, status.Valid(), status)
	}
	assert.False(t, StoreStatus("CLOSED").Valid())
}
