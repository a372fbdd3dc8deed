package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
	"github.com/jackc/pgx/v5"
)

// Products returns catalog entries matching the filter, ordered by ID.
func (r *Repository) Products(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, SelectProductsSQL, filter.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", classify(err))
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, errScan := scanProduct(rows)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", errScan)
		}
		if !org.MatchesDivision(product.Division, filter.Division) {
			continue
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", classify(err))
	}

	return products, nil
}

// Product returns a single catalog entry by ID.
func (r *Repository) Product(ctx context.Context, id int64) (models.Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx, SelectProductSQL, id))
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to get product %d: %w", id, classify(err))
	}
	return product, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var (
		product     models.Product
		buyerRoles  []int32
		managerRole int32
	)
	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Cost, &product.Count,
		&product.Division, &buyerRoles, &managerRole, &product.Active,
	)
	if err != nil {
		return models.Product{}, err
	}
	product.BuyerRoles = org.Roles(buyerRoles)
	product.ManagerRole = org.Role(managerRole)
	return product, nil
}
