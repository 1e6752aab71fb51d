package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmart/livestock-api/internal/model"
)

func TestOrderQueryService_GetOrder(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)
	q := NewOrderQueryService(f.store)
	ctx := context.Background()

	got, err := q.GetOrder(ctx, actorOf(f.customer), order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 2, got.Count())

	_, err = q.GetOrder(ctx, actorOf(f.farmerG), order.ID)
	assert.NoError(t, err)

	otherCustomer := f.store.addUser(model.RoleCustomer)
	_, err = q.GetOrder(ctx, actorOf(otherCustomer), order.ID)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	stranger := f.store.addUser(model.RoleFarmer)
	_, err = q.GetOrder(ctx, actorOf(stranger), order.ID)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	_, err = q.GetOrder(ctx, actorOf(f.customer), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderQueryService_ListOrders_ByRole(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)
	q := NewOrderQueryService(f.store)
	ctx := context.Background()

	orders, page, err := q.ListOrders(ctx, actorOf(f.customer), ListQuery{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Equal(t, 2, orders[0].Count())
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, model.DefaultPerPage, page.PerPage)

	orders, _, err = q.ListOrders(ctx, actorOf(f.farmerG), ListQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, _, err = q.ListFarmerOrders(ctx, actorOf(f.store.addUser(model.RoleFarmer)), ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderQueryService_FarmerListingIsDistinct(t *testing.T) {
	store := newMemStore()
	customer := store.addUser(model.RoleCustomer)
	farmer := store.addUser(model.RoleFarmer)
	store.addToCart(customer, store.addAnimal(farmer, "Cow", 100), 1)
	store.addToCart(customer, store.addAnimal(farmer, "Calf", 50), 2)
	_, err := NewOrderService(store, nil, nil).CreateOrder(context.Background(), actorOf(customer))
	require.NoError(t, err)

	orders, page, err := NewOrderQueryService(store).ListFarmerOrders(context.Background(), actorOf(farmer), ListQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, page.Total)
}

func TestOrderQueryService_ListFarmerOrders_CustomerForbidden(t *testing.T) {
	f := newOrderFixture(t)

	_, _, err := NewOrderQueryService(f.store).ListFarmerOrders(context.Background(), actorOf(f.customer), ListQuery{})
	assert.ErrorIs(t, err, ErrFarmersOnly)
}

func TestOrderQueryService_Pagination(t *testing.T) {
	store := newMemStore()
	customer := store.addUser(model.RoleCustomer)
	farmer := store.addUser(model.RoleFarmer)
	svc := NewOrderService(store, nil, nil)
	for i := 0; i < 5; i++ {
		store.addToCart(customer, store.addAnimal(farmer, "Sheep", 80), 1)
		_, err := svc.CreateOrder(context.Background(), actorOf(customer))
		require.NoError(t, err)
	}
	q := NewOrderQueryService(store)

	orders, page, err := q.ListOrders(context.Background(), actorOf(customer), ListQuery{Page: model.Page{Number: 2, PerPage: 2}})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, model.Pagination{Total: 5, Pages: 3, CurrentPage: 2, PerPage: 2, HasNext: true, HasPrev: true}, page)

	orders, page, err = q.ListOrders(context.Background(), actorOf(customer), ListQuery{Page: model.Page{Number: 3, PerPage: 500}})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, model.MaxPerPage, page.PerPage)
}

func TestOrderQueryService_StatusFilter(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)
	_, err := f.updateStatus(f.farmerF, order.ID, "confirmed")
	require.NoError(t, err)
	q := NewOrderQueryService(f.store)
	ctx := context.Background()

	orders, _, err := q.ListOrders(ctx, actorOf(f.customer), ListQuery{Status: "confirmed"})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, _, err = q.ListOrders(ctx, actorOf(f.customer), ListQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, _, err = q.ListOrders(ctx, actorOf(f.customer), ListQuery{Status: "shipped"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrderQueryService_ListUserOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.createOrder(t)
	q := NewOrderQueryService(f.store)
	ctx := context.Background()

	orders, _, err := q.ListUserOrders(ctx, actorOf(f.customer), f.customer.ID, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, _, err = q.ListUserOrders(ctx, actorOf(f.farmerF), f.customer.ID, ListQuery{})
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	_, _, err = q.ListUserOrders(ctx, actorOf(f.customer), uuid.New(), ListQuery{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOrderQueryService_ItemsForAnimal(t *testing.T) {
	f := newOrderFixture(t)
	order := f.createOrder(t)
	q := NewOrderQueryService(f.store)
	ctx := context.Background()

	animal, items, err := q.ItemsForAnimal(ctx, actorOf(f.farmerF), f.a1.ID)
	require.NoError(t, err)
	assert.Equal(t, f.a1.ID, animal.ID)
	require.Len(t, items, 1)
	assert.Equal(t, order.ID, items[0].OrderID)

	_, _, err = q.ItemsForAnimal(ctx, actorOf(f.farmerG), f.a1.ID)
	assert.ErrorIs(t, err, ErrNotAnimalOwner)

	_, _, err = q.ItemsForAnimal(ctx, actorOf(f.farmerF), uuid.New())
	assert.ErrorIs(t, err, ErrAnimalNotFound)
}

func TestOrderQueryService_ListAll(t *testing.T) {
	f := newOrderFixture(t)
	f.createOrder(t)
	other := f.store.addUser(model.RoleCustomer)
	f.store.addToCart(other, f.store.addAnimal(f.farmerF, "Ram", 90), 1)
	_, err := f.svc.CreateOrder(context.Background(), actorOf(other))
	require.NoError(t, err)
	q := NewOrderQueryService(f.store)

	orders, _, err := q.ListAll(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, _, err = q.ListAll(context.Background(), ListQuery{CustomerID: other.ID})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, other.ID, orders[0].CustomerID)
}
