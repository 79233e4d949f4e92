package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/atlas/internal/models"
)

// ListPeople reads every staff record from the directory service.
func (c *Client) ListPeople(ctx context.Context) ([]models.Person, error) {
	raw, err := c.listStaff(ctx)
	if err != nil {
		return nil, err
	}

	people := make([]models.Person, 0, len(raw))
	for _, record := range raw {
		people = append(people, record.ToPerson())
	}

	return people, nil
}

func (c *Client) listStaff(ctx context.Context) ([]models.RawStaffRecord, error) {
	payload, err := c.do(ctx, "list_people", http.MethodGet, "/people", nil)
	if err != nil {
		return nil, err
	}

	var raw []models.RawStaffRecord
	if err = json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: people: %w", ErrDecode, err)
	}

	return raw, nil
}

// SearchPeople lists the directory and keeps the people whose name contains query.
func (c *Client) SearchPeople(ctx context.Context, query string) ([]models.Person, error) {
	people, err := c.ListPeople(ctx)
	if err != nil {
		return nil, err
	}

	return FilterByName(people, query), nil
}

// FilterByName returns the people whose name contains query, ignoring case.
// An empty query returns people unchanged.
func FilterByName(people []models.Person, query string) []models.Person {
	if query == "" {
		return people
	}

	needle := strings.ToUpper(query)
	filtered := make([]models.Person, 0, len(people))
	for _, person := range people {
		if strings.Contains(strings.ToUpper(person.Name), needle) {
			filtered = append(filtered, person)
		}
	}

	return filtered
}

// LoadForEdit reads one staff record as an editable person. Missing address fields
// are empty strings rather than placeholders.
func (c *Client) LoadForEdit(ctx context.Context, id int) (models.Person, error) {
	staff, err := c.fetchStaff(ctx, id)
	if err != nil {
		return models.Person{}, err
	}
	if staff == nil {
		return models.Person{}, fmt.Errorf("person %d: %w", id, ErrAbsent)
	}

	return staff.ToPerson(), nil
}

// CreatePerson stores a new staff record and returns it as the service saved it.
func (c *Client) CreatePerson(ctx context.Context, person models.Person) (models.Person, error) {
	if err := person.Validate(); err != nil {
		return models.Person{}, err
	}

	payload, err := c.do(ctx, "create_person", http.MethodPost, "/people", person)
	if err != nil {
		return models.Person{}, err
	}

	return savedPerson(payload, person)
}

// UpdatePerson replaces the staff record with the given id.
func (c *Client) UpdatePerson(ctx context.Context, id int, person models.Person) (models.Person, error) {
	if err := person.Validate(); err != nil {
		return models.Person{}, err
	}
	person.ID = id

	payload, err := c.do(ctx, "update_person", http.MethodPut, personPath(id), person)
	if err != nil {
		return models.Person{}, err
	}

	return savedPerson(payload, person)
}

// DeletePerson removes the staff record with the given id.
func (c *Client) DeletePerson(ctx context.Context, id int) error {
	_, err := c.do(ctx, "delete_person", http.MethodDelete, personPath(id), nil)
	return err
}

// savedPerson decodes the record echoed by a write. A body without a record
// falls back to what was sent.
func savedPerson(payload []byte, sent models.Person) (models.Person, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return sent, nil
	}

	staff, err := decodeStaff(payload)
	if err != nil {
		return models.Person{}, err
	}
	if staff == nil {
		return sent, nil
	}

	return staff.ToPerson(), nil
}
