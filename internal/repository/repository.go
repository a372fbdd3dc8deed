package repository

import (
	"context"

	"github.com/UnknownOlympus/bazaar/internal/models"
)

// Repository is the PostgreSQL implementation of the shop store.
type Repository struct {
	db Database
}

// EmployeeFinder looks employees up in the identity tables.
type EmployeeFinder interface {
	Employee(ctx context.Context, lookup models.EmployeeLookup) (models.Employee, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database) *Repository {
	return &Repository{db: db}
}
