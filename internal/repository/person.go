package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/atlas/internal/models"
	"github.com/jackc/pgx/v5"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (models.Person, error) {
	var person models.Person
	err := row.Scan(
		&person.ID,
		&person.Name,
		&person.Phone,
		&person.DepartmentID,
		&person.Address.Street,
		&person.Address.City,
		&person.Address.State,
		&person.Address.ZIP,
		&person.Address.Country,
	)

	return person, err
}

// ListPeople returns every staff record ordered by id.
func (r *Repository) ListPeople(ctx context.Context) ([]models.Person, error) {
	rows, err := r.db.Query(ctx, ListPeopleSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	people := make([]models.Person, 0)
	for rows.Next() {
		person, errScan := scanPerson(rows)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan person row: %w", errScan)
		}
		people = append(people, person)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read people rows: %w", err)
	}

	return people, nil
}

// GetPerson returns the staff record with the given id, or ErrPersonNotFound.
func (r *Repository) GetPerson(ctx context.Context, id int) (models.Person, error) {
	person, err := scanPerson(r.db.QueryRow(ctx, GetPersonSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Person{}, ErrPersonNotFound
		}
		return models.Person{}, fmt.Errorf("failed to get person %d: %w", id, err)
	}

	return person, nil
}

// CreatePerson inserts a staff record and returns it with the id assigned by the database.
func (r *Repository) CreatePerson(ctx context.Context, person models.Person) (models.Person, error) {
	err := r.db.QueryRow(ctx, InsertPersonSQL, personArgs(person)...).Scan(&person.ID)
	if err != nil {
		return models.Person{}, fmt.Errorf("failed to insert person: %w", err)
	}

	return person, nil
}

// UpdatePerson replaces every field of the staff record with the given id.
func (r *Repository) UpdatePerson(ctx context.Context, id int, person models.Person) (models.Person, error) {
	args := append(personArgs(person), id)

	cmdTag, err := r.db.Exec(ctx, UpdatePersonSQL, args...)
	if err != nil {
		return models.Person{}, fmt.Errorf("failed to update person %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.Person{}, ErrPersonNotFound
	}

	person.ID = id
	return person, nil
}

// DeletePerson removes the staff record with the given id.
func (r *Repository) DeletePerson(ctx context.Context, id int) error {
	cmdTag, err := r.db.Exec(ctx, DeletePersonSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete person %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPersonNotFound
	}

	return nil
}

func personArgs(person models.Person) []any {
	return []any{
		person.Name,
		person.Phone,
		person.DepartmentID,
		person.Address.Street,
		person.Address.City,
		person.Address.State,
		person.Address.ZIP,
		person.Address.Country,
	}
}
