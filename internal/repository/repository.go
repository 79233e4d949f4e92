package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/atlas/internal/models"
)

// ErrPersonNotFound is returned when no staff record has the requested id.
var ErrPersonNotFound = errors.New("person not found")

type Repository struct {
	db Database
}

// Interface defines the storage operations the directory API is built on:
// reading and writing staff records and reading the department table.
type Interface interface {
	ListPeople(ctx context.Context) ([]models.Person, error)
	GetPerson(ctx context.Context, id int) (models.Person, error)
	CreatePerson(ctx context.Context, person models.Person) (models.Person, error)
	UpdatePerson(ctx context.Context, id int, person models.Person) (models.Person, error)
	DeletePerson(ctx context.Context, id int) error
	ListDepartments(ctx context.Context) ([]models.Department, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the directory tables if they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to apply directory schema: %w", err)
	}

	return nil
}
