package service

import (
	"github.com/farmart/livestock-api/internal/model"
)

// Decision is the outcome of an authorization check. A denied decision
// carries the error returned to the caller.
type Decision struct {
	Allowed bool
	Reason  error
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason error) Decision { return Decision{Reason: reason} }

func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason
}

func requireRole(actor model.Actor, role model.Role, denied error) Decision {
	if actor.Role != role {
		return deny(denied)
	}
	return allow()
}

func AuthorizeCreateOrder(actor model.Actor) Decision {
	return requireRole(actor, model.RoleCustomer, ErrCustomersOnly)
}

func AuthorizeCart(actor model.Actor) Decision {
	return requireRole(actor, model.RoleCustomer, ErrCustomersOnly)
}

func AuthorizeFarmerView(actor model.Actor) Decision {
	return requireRole(actor, model.RoleFarmer, ErrFarmersOnly)
}

func AuthorizeCreateAnimal(actor model.Actor) Decision {
	return requireRole(actor, model.RoleFarmer, ErrFarmersOnly)
}

// AuthorizeAnimalOwner allows only the farmer who listed the animal.
func AuthorizeAnimalOwner(actor model.Actor, animal *model.Animal) Decision {
	if d := requireRole(actor, model.RoleFarmer, ErrFarmersOnly); !d.Allowed {
		return d
	}
	if animal.FarmerID != actor.UserID {
		return deny(ErrNotAnimalOwner)
	}
	return allow()
}

func AuthorizeCartItem(actor model.Actor, item *model.CartItem) Decision {
	if d := AuthorizeCart(actor); !d.Allowed {
		return d
	}
	if item.CustomerID != actor.UserID {
		return deny(ErrNotCartOwner)
	}
	return allow()
}

// AuthorizeStatusUpdate allows any co-seller of the order: owning a single
// item is enough, even when other farmers' animals are in the same order.
func AuthorizeStatusUpdate(actor model.Actor, order *model.Order) Decision {
	if d := requireRole(actor, model.RoleFarmer, ErrFarmersOnly); !d.Allowed {
		return d
	}
	if !order.HasSeller(actor.UserID) {
		return deny(ErrNotCoSeller)
	}
	return allow()
}

// AuthorizeViewOrder allows the ordering customer and every co-seller.
func AuthorizeViewOrder(actor model.Actor, order *model.Order) Decision {
	switch actor.Role {
	case model.RoleCustomer:
		if order.CustomerID == actor.UserID {
			return allow()
		}
	case model.RoleFarmer:
		if order.HasSeller(actor.UserID) {
			return allow()
		}
	}
	return deny(ErrOrderAccessDenied)
}

// AuthorizeUserOrders lets a user list only their own orders.
func AuthorizeUserOrders(actor model.Actor, user *model.User) Decision {
	if actor.UserID != user.ID {
		return deny(ErrOrderAccessDenied)
	}
	return allow()
}
