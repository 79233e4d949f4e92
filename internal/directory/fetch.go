package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/UnknownOlympus/atlas/internal/models"
	"golang.org/x/sync/errgroup"
)

// Fetch reads the staff record with the given id and the full department table.
// Both reads must succeed; no partial result is returned. The staff record is nil
// when the service answers with JSON that is not an object (for example null).
func (c *Client) Fetch(ctx context.Context, id int) (*models.RawStaffRecord, []models.RawDepartment, error) {
	if c.mode == FetchSequential {
		return c.fetchSequential(ctx, id)
	}

	return c.fetchConcurrent(ctx, id)
}

func (c *Client) fetchSequential(ctx context.Context, id int) (*models.RawStaffRecord, []models.RawDepartment, error) {
	staff, err := c.fetchStaff(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	departments, err := c.ListDepartments(ctx)
	if err != nil {
		return nil, nil, err
	}

	return staff, departments, nil
}

func (c *Client) fetchConcurrent(ctx context.Context, id int) (*models.RawStaffRecord, []models.RawDepartment, error) {
	var (
		staff       *models.RawStaffRecord
		departments []models.RawDepartment
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		staff, err = c.fetchStaff(groupCtx, id)
		return err
	})
	group.Go(func() error {
		var err error
		departments, err = c.ListDepartments(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	return staff, departments, nil
}

func (c *Client) fetchStaff(ctx context.Context, id int) (*models.RawStaffRecord, error) {
	payload, err := c.do(ctx, "get_person", http.MethodGet, personPath(id), nil)
	if err != nil {
		return nil, err
	}

	return decodeStaff(payload)
}

// ListDepartments reads the full, unfiltered department table.
func (c *Client) ListDepartments(ctx context.Context) ([]models.RawDepartment, error) {
	payload, err := c.do(ctx, "list_departments", http.MethodGet, "/departments", nil)
	if err != nil {
		return nil, err
	}

	var departments []models.RawDepartment
	if err = json.Unmarshal(payload, &departments); err != nil {
		return nil, fmt.Errorf("%w: departments: %w", ErrDecode, err)
	}

	return departments, nil
}

// decodeStaff decodes a staff record body. Valid JSON that is not an object yields a nil record.
func decodeStaff(payload []byte) (*models.RawStaffRecord, error) {
	trimmed := bytes.TrimSpace(payload)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: staff record is not valid JSON", ErrDecode)
	}
	if trimmed[0] != '{' {
		return nil, nil //nolint:nilnil // a non-object body is the absent record, not a failure
	}

	var staff models.RawStaffRecord
	if err := json.Unmarshal(trimmed, &staff); err != nil {
		return nil, fmt.Errorf("%w: staff record: %w", ErrDecode, err)
	}

	return &staff, nil
}
