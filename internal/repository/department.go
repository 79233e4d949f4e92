package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/atlas/internal/models"
)

// ListDepartments returns the whole department table ordered by id.
func (r *Repository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := r.db.Query(ctx, ListDepartmentsSQL)
	if err != nil {
		return nil, fmt.Errorf("error querying departments: %w", err)
	}
	defer rows.Close()

	departments := make([]models.Department, 0)
	for rows.Next() {
		var dept models.Department
		if err = rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, fmt.Errorf("error scanning department row: %w", err)
		}
		departments = append(departments, dept)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate department rows: %w", err)
	}

	return departments, nil
}
