package auth

import (
	apperrors "bistro/internal/errors"
	"bistro/internal/model"
)

// Operation identifies a requested action for authorization purposes.
type Operation int

const (
	OpRegister Operation = iota
	OpLogin
	OpLogout
	OpTokenRefresh
	OpProfileRead
	OpProfileUpdate
	OpCatalogRead
	OpCatalogWrite
	OpOrderCreate
	OpOrderList
	OpOrderRead
	OpOrderUpdate
	OpRecommendations
)

// OrderScope is the subset of orders an identity may see in list operations.
type OrderScope struct {
	AllOrders  bool
	CustomerID uint
}

// Authorize decides whether user (nil = anonymous) may perform op.
// Rules, in precedence order: auth endpoints are open to everyone; every
// other operation needs a resolved identity; catalog writes and order status
// updates need an admin; order creation needs a customer.
func Authorize(user *model.User, op Operation) error {
	switch op {
	case OpRegister, OpLogin, OpLogout, OpTokenRefresh:
		return nil
	}

	if user == nil {
		return apperrors.ErrAuthenticationRequired
	}

	switch op {
	case OpCatalogWrite:
		if !user.IsAdmin {
			return apperrors.PermissionDenied("only admins can modify food items")
		}
	case OpOrderUpdate:
		if !user.IsAdmin {
			return apperrors.PermissionDenied("only admins can update the order status")
		}
	case OpOrderCreate:
		if !user.IsCustomer {
			return apperrors.PermissionDenied("only customers can place orders")
		}
	}
	return nil
}

// ScopeOrders derives the order visibility for a resolved identity:
// admins see everything, everyone else only their own orders.
func ScopeOrders(user *model.User) OrderScope {
	if user.IsAdmin {
		return OrderScope{AllOrders: true}
	}
	return OrderScope{CustomerID: user.ID}
}

// CheckOrderOwnership rejects a client-supplied customer id that differs from
// the caller. The created order is always owned by the caller; a differing id
// is an ownership violation, not a validation slip.
func CheckOrderOwnership(user *model.User, requestedCustomerID *uint) error {
	if requestedCustomerID != nil && *requestedCustomerID != user.ID {
		return apperrors.PermissionDenied("ownership violation: you can only order for yourself")
	}
	return nil
}
