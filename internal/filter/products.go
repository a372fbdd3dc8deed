package filter

import "github.com/UnknownOlympus/bazaar/internal/models"

// Affordable keeps products whose cost does not exceed the balance.
func Affordable(products []models.Product, balance int64) []models.Product {
	return keep(products, func(p models.Product) bool { return p.Cost <= balance })
}
