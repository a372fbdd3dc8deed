package models

import "github.com/UnknownOlympus/bazaar/internal/org"

// Product is a shop catalog entry.
type Product struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Cost        int64       `json:"cost"`         // Price in points, always positive
	Count       int         `json:"count"`        // Maximum number of activations
	Division    string      `json:"division"`     // Division scope or "all"
	BuyerRoles  org.RoleSet `json:"buyer_roles"`  // Roles allowed to buy; empty means anyone
	ManagerRole org.Role    `json:"manager_role"` // Role required to approve purchases
	Active      bool        `json:"active"`
}

// AllowsBuyer reports whether an employee with the given role may buy the product.
func (p Product) AllowsBuyer(role org.Role) bool {
	return len(p.BuyerRoles) == 0 || p.BuyerRoles.Contains(role)
}

// ProductFilter narrows a catalog query. Zero values mean "no restriction".
type ProductFilter struct {
	ActiveOnly bool
	Division   string
}
