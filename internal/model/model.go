package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleCustomer Role = "customer"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleFarmer, RoleCustomer:
		return r, true
	}
	return "", false
}

// Actor is the verified caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

type User struct {
	ID        uuid.UUID
	Email     string
	Username  string
	Password  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Animal struct {
	ID          uuid.UUID
	FarmerID    uuid.UUID
	Name        string
	Type        string
	Breed       string
	Price       decimal.Decimal
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CartItem struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	AnimalID   uuid.UUID
	Quantity   int
	Animal     *Animal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartTotal prices cart lines at the current catalog price.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Animal == nil {
			continue
		}
		total = total.Add(item.Animal.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
