package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmart/livestock-api/internal/model"
	"github.com/farmart/livestock-api/internal/repository"
)

// memStore is an in-memory repository.Store. WithinTx snapshots every table
// and restores the snapshot when fn fails, mirroring a rollback.
type memStore struct {
	memState
	clock time.Time

	// outboxErr fails every outbox insert.
	outboxErr error
	// clearShortfall makes Clear report fewer deleted rows than it removed.
	clearShortfall int64
}

type memState struct {
	users   map[uuid.UUID]*model.User
	animals map[uuid.UUID]*model.Animal
	cart    map[uuid.UUID]*model.CartItem
	orders  map[uuid.UUID]*model.Order
	outbox  []model.OutboxRecord
}

func newMemStore() *memStore {
	return &memStore{
		memState: memState{
			users:   make(map[uuid.UUID]*model.User),
			animals: make(map[uuid.UUID]*model.Animal),
			cart:    make(map[uuid.UUID]*model.CartItem),
			orders:  make(map[uuid.UUID]*model.Order),
		},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (st memState) clone() memState {
	c := memState{
		users:   make(map[uuid.UUID]*model.User, len(st.users)),
		animals: make(map[uuid.UUID]*model.Animal, len(st.animals)),
		cart:    make(map[uuid.UUID]*model.CartItem, len(st.cart)),
		orders:  make(map[uuid.UUID]*model.Order, len(st.orders)),
		outbox:  append([]model.OutboxRecord(nil), st.outbox...),
	}
	for id, u := range st.users {
		cp := *u
		c.users[id] = &cp
	}
	for id, a := range st.animals {
		cp := *a
		c.animals[id] = &cp
	}
	for id, ci := range st.cart {
		cp := *ci
		c.cart[id] = &cp
	}
	for id, o := range st.orders {
		c.orders[id] = copyOrder(o)
	}
	return c
}

func copyOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	if o.FarmerNotes != nil {
		notes := *o.FarmerNotes
		cp.FarmerNotes = &notes
	}
	return &cp
}

func (s *memStore) WithinTx(_ context.Context, fn func(tx repository.Tx) error) error {
	snapshot := s.memState.clone()
	if err := fn(s); err != nil {
		s.memState = snapshot
		return err
	}
	return nil
}

func (s *memStore) Users() repository.UserRepository     { return memUsers{s} }
func (s *memStore) Animals() repository.AnimalRepository { return memAnimals{s} }
func (s *memStore) Carts() repository.CartRepository     { return memCarts{s} }
func (s *memStore) Orders() repository.OrderRepository   { return memOrders{s} }
func (s *memStore) Outbox() repository.OutboxRepository  { return memOutbox{s} }

// seeding helpers

func (s *memStore) addUser(role model.Role) *model.User {
	u := &model.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Username: string(role), Role: role}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addAnimal(farmer *model.User, name string, price int64) *model.Animal {
	a := &model.Animal{
		ID: uuid.New(), FarmerID: farmer.ID, Name: name, Type: "cattle", Breed: "boran",
		Price: decimal.NewFromInt(price), IsAvailable: true, CreatedAt: s.tick(),
	}
	s.animals[a.ID] = a
	return a
}

func (s *memStore) addToCart(customer *model.User, animal *model.Animal, qty int) {
	_ = memCarts{s}.AddItem(context.Background(), &model.CartItem{CustomerID: customer.ID, AnimalID: animal.ID, Quantity: qty})
}

func (s *memStore) cartSize(customerID uuid.UUID) int {
	n := 0
	for _, ci := range s.cart {
		if ci.CustomerID == customerID {
			n++
		}
	}
	return n
}

// users

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// animals

type memAnimals struct{ s *memStore }

func (r memAnimals) Create(_ context.Context, animal *model.Animal) error {
	animal.ID = uuid.New()
	animal.CreatedAt = r.s.tick()
	animal.UpdatedAt = animal.CreatedAt
	cp := *animal
	r.s.animals[animal.ID] = &cp
	return nil
}

func (r memAnimals) GetByID(_ context.Context, id uuid.UUID) (*model.Animal, error) {
	a, ok := r.s.animals[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r memAnimals) Update(_ context.Context, animal *model.Animal) error {
	stored, ok := r.s.animals[animal.ID]
	if !ok {
		return nil
	}
	stored.Name = animal.Name
	stored.Type = animal.Type
	stored.Breed = animal.Breed
	stored.Price = animal.Price
	stored.UpdatedAt = r.s.tick()
	return nil
}

func (r memAnimals) LockByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Animal, error) {
	out := make(map[uuid.UUID]*model.Animal, len(ids))
	for _, id := range ids {
		if a, _ := r.GetByID(ctx, id); a != nil {
			out[id] = a
		}
	}
	return out, nil
}

func (r memAnimals) SetAvailability(_ context.Context, ids []uuid.UUID, available bool) (int64, error) {
	var n int64
	for _, id := range ids {
		if a, ok := r.s.animals[id]; ok {
			a.IsAvailable = available
			n++
		}
	}
	return n, nil
}

// carts

type memCarts struct{ s *memStore }

func (r memCarts) ListItems(_ context.Context, customerID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	for _, ci := range r.s.cart {
		if ci.CustomerID != customerID {
			continue
		}
		item := *ci
		if a, ok := r.s.animals[ci.AnimalID]; ok {
			cp := *a
			item.Animal = &cp
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r memCarts) GetItem(_ context.Context, itemID uuid.UUID) (*model.CartItem, error) {
	ci, ok := r.s.cart[itemID]
	if !ok {
		return nil, nil
	}
	cp := *ci
	return &cp, nil
}

func (r memCarts) AddItem(_ context.Context, item *model.CartItem) error {
	for _, ci := range r.s.cart {
		if ci.CustomerID == item.CustomerID && ci.AnimalID == item.AnimalID {
			ci.Quantity += item.Quantity
			ci.UpdatedAt = r.s.tick()
			item.ID, item.Quantity, item.CreatedAt, item.UpdatedAt = ci.ID, ci.Quantity, ci.CreatedAt, ci.UpdatedAt
			return nil
		}
	}
	item.ID = uuid.New()
	item.CreatedAt = r.s.tick()
	item.UpdatedAt = item.CreatedAt
	cp := *item
	cp.Animal = nil
	r.s.cart[item.ID] = &cp
	return nil
}

func (r memCarts) UpdateItem(_ context.Context, item *model.CartItem) error {
	if ci, ok := r.s.cart[item.ID]; ok {
		ci.Quantity = item.Quantity
		ci.UpdatedAt = r.s.tick()
	}
	return nil
}

func (r memCarts) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	delete(r.s.cart, itemID)
	return nil
}

func (r memCarts) Clear(_ context.Context, customerID uuid.UUID) (int64, error) {
	var n int64
	for id, ci := range r.s.cart {
		if ci.CustomerID == customerID {
			delete(r.s.cart, id)
			n++
		}
	}
	return n - r.s.clearShortfall, nil
}

// orders

type memOrders struct{ s *memStore }

func (r memOrders) Create(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = r.s.tick()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	order.ItemsCount = len(order.Items)
	stored := copyOrder(order)
	for i := range stored.Items {
		stored.Items[i].Animal = nil
		stored.Items[i].FarmerID = uuid.Nil
	}
	r.s.orders[order.ID] = stored
	return nil
}

// load joins items with their animals the way the SQL repository does.
func (r memOrders) load(o *model.Order) *model.Order {
	cp := copyOrder(o)
	for i := range cp.Items {
		if a, ok := r.s.animals[cp.Items[i].AnimalID]; ok {
			animal := *a
			cp.Items[i].Animal = &animal
			cp.Items[i].FarmerID = a.FarmerID
		}
	}
	cp.ItemsCount = len(cp.Items)
	return cp
}

func (r memOrders) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return r.load(o), nil
}

func (r memOrders) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.GetByID(ctx, id)
}

func (r memOrders) UpdateStatus(_ context.Context, order *model.Order) error {
	stored, ok := r.s.orders[order.ID]
	if !ok {
		return nil
	}
	stored.Status = order.Status
	stored.TotalAmount = order.TotalAmount
	stored.FarmerNotes = nil
	if order.FarmerNotes != nil {
		notes := *order.FarmerNotes
		stored.FarmerNotes = &notes
	}
	stored.UpdatedAt = r.s.tick()
	order.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r memOrders) ItemsForOrder(_ context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, nil
	}
	return r.load(o).Items, nil
}

func (r memOrders) ItemsForAnimal(_ context.Context, animalID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	for _, o := range r.sorted() {
		for _, item := range o.Items {
			if item.AnimalID == animalID {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

func (r memOrders) sorted() []*model.Order {
	out := make([]*model.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, r.load(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memOrders) ListForCustomer(_ context.Context, customerID uuid.UUID, f model.OrderFilter) ([]model.Order, int, error) {
	return r.list(f, func(o *model.Order) bool { return o.CustomerID == customerID })
}

func (r memOrders) ListForFarmer(_ context.Context, farmerID uuid.UUID, f model.OrderFilter) ([]model.Order, int, error) {
	return r.list(f, func(o *model.Order) bool { return o.HasSeller(farmerID) })
}

func (r memOrders) List(_ context.Context, f model.OrderFilter) ([]model.Order, int, error) {
	return r.list(f, func(o *model.Order) bool {
		return f.CustomerID == uuid.Nil || o.CustomerID == f.CustomerID
	})
}

func (r memOrders) list(f model.OrderFilter, match func(*model.Order) bool) ([]model.Order, int, error) {
	var matched []model.Order
	for _, o := range r.sorted() {
		if !match(o) || (f.Status != "" && o.Status != f.Status) {
			continue
		}
		summary := *o
		summary.Items = nil
		matched = append(matched, summary)
	}
	total := len(matched)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

// outbox

type memOutbox struct{ s *memStore }

func (r memOutbox) Insert(_ context.Context, rec *model.OutboxRecord) error {
	if r.s.outboxErr != nil {
		return r.s.outboxErr
	}
	rec.ID = int64(len(r.s.outbox) + 1)
	rec.CreatedAt = r.s.tick()
	r.s.outbox = append(r.s.outbox, *rec)
	return nil
}

func (r memOutbox) FetchPending(_ context.Context, limit int) ([]model.OutboxRecord, error) {
	var out []model.OutboxRecord
	for _, rec := range r.s.outbox {
		if rec.SentAt == nil && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r memOutbox) MarkSent(_ context.Context, id int64) error {
	now := r.s.tick()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].SentAt = &now
		}
	}
	return nil
}
