// Package policy holds pure authorization predicates. Keeping them free of
// I/O makes the rules table-testable and reusable across transports.
package policy

import "github.com/arvelin/storefront/internal/domain"

// Actor is the authenticated caller as established by the gateway.
type Actor struct {
	UserID string
	Role   string
}

// CanViewOrder reports whether the actor may read the order's status.
// Admins see every order; everyone else only their own.
func CanViewOrder(actor Actor, order *domain.Order) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	return actor.UserID != "" && actor.UserID == order.UserID
}
