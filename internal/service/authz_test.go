package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/farmart/livestock-api/internal/model"
)

func TestAuthorizeStatusUpdate(t *testing.T) {
	f, g := uuid.New(), uuid.New()
	order := &model.Order{Items: []model.OrderItem{{FarmerID: f}, {FarmerID: g}}}

	assert.True(t, AuthorizeStatusUpdate(model.Actor{UserID: f, Role: model.RoleFarmer}, order).Allowed)
	assert.True(t, AuthorizeStatusUpdate(model.Actor{UserID: g, Role: model.RoleFarmer}, order).Allowed)

	d := AuthorizeStatusUpdate(model.Actor{UserID: uuid.New(), Role: model.RoleFarmer}, order)
	assert.False(t, d.Allowed)
	assert.ErrorIs(t, d.Err(), ErrNotCoSeller)

	d = AuthorizeStatusUpdate(model.Actor{UserID: f, Role: model.RoleCustomer}, order)
	assert.ErrorIs(t, d.Err(), ErrFarmersOnly)
}

func TestAuthorizeViewOrder(t *testing.T) {
	customer, farmer := uuid.New(), uuid.New()
	order := &model.Order{CustomerID: customer, Items: []model.OrderItem{{FarmerID: farmer}}}

	tests := []struct {
		name  string
		actor model.Actor
		want  bool
	}{
		{"owning customer", model.Actor{UserID: customer, Role: model.RoleCustomer}, true},
		{"co-seller", model.Actor{UserID: farmer, Role: model.RoleFarmer}, true},
		{"other customer", model.Actor{UserID: uuid.New(), Role: model.RoleCustomer}, false},
		{"other farmer", model.Actor{UserID: uuid.New(), Role: model.RoleFarmer}, false},
		{"customer id with farmer role", model.Actor{UserID: customer, Role: model.RoleFarmer}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorizeViewOrder(tt.actor, order).Allowed)
		})
	}
}

func TestAuthorizeCreateOrder(t *testing.T) {
	assert.NoError(t, AuthorizeCreateOrder(model.Actor{Role: model.RoleCustomer}).Err())
	assert.ErrorIs(t, AuthorizeCreateOrder(model.Actor{Role: model.RoleFarmer}).Err(), ErrCustomersOnly)
}
