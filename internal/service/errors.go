package service

import "github.com/farmart/livestock-api/internal/apperr"

var (
	ErrUserAlreadyExists  = apperr.New(apperr.KindConflict, "user already exists")
	ErrInvalidCredentials = apperr.New(apperr.KindAuthentication, "invalid credentials")
	ErrInvalidToken       = apperr.New(apperr.KindAuthentication, "invalid token")
	ErrTokenExpired       = apperr.New(apperr.KindAuthentication, "token expired")
	ErrInvalidRole        = apperr.New(apperr.KindValidation, "role must be farmer or customer")
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "user not found")

	ErrAnimalNotFound = apperr.New(apperr.KindNotFound, "animal not found")
	ErrInvalidPrice   = apperr.New(apperr.KindValidation, "price must not be negative")

	ErrCartItemNotFound = apperr.New(apperr.KindNotFound, "cart item not found")
	ErrInvalidQuantity  = apperr.New(apperr.KindValidation, "quantity must be greater than 0")

	ErrEmptyCart          = apperr.New(apperr.KindValidation, "cart is empty")
	ErrAnimalUnavailable  = apperr.New(apperr.KindConflict, "animal is no longer available")
	ErrCartChanged        = apperr.New(apperr.KindConflict, "cart changed while the order was being placed")
	ErrOrderNotFound      = apperr.New(apperr.KindNotFound, "order not found")
	ErrInvalidStatus      = apperr.New(apperr.KindValidation, "invalid status. Must be: pending, confirmed, rejected, or completed")
	ErrInvalidTransition  = apperr.New(apperr.KindConflict, "status transition not allowed")
	ErrOrderAccessDenied  = apperr.New(apperr.KindForbidden, "access denied")
	ErrNotCoSeller        = apperr.New(apperr.KindForbidden, "you can only update orders containing your animals")
	ErrCustomersOnly      = apperr.New(apperr.KindForbidden, "only customers can perform this action")
	ErrFarmersOnly        = apperr.New(apperr.KindForbidden, "only farmers can perform this action")
	ErrNotAnimalOwner     = apperr.New(apperr.KindForbidden, "you can only manage your own animals")
	ErrNotCartOwner       = apperr.New(apperr.KindForbidden, "you can only modify your own cart items")
)
