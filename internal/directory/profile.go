package directory

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/atlas/internal/models"
	"golang.org/x/sync/errgroup"
)

// FetchEmployeeData fetches a staff record and the department table and joins them.
// The boolean is false when the service returned no usable record; the error is set
// when either read failed.
func (c *Client) FetchEmployeeData(ctx context.Context, id int) (models.Profile, bool, error) {
	staff, departments, err := c.Fetch(ctx, id)
	if err != nil {
		c.log.ErrorContext(ctx, "Error fetching employee or department data", "id", id, "error", err)
		return models.Profile{}, false, fmt.Errorf("failed to fetch employee %d: %w", id, err)
	}

	profile, ok := Join(staff, departments)
	if !ok {
		c.metrics.ProfilesJoined.WithLabelValues("absent").Inc()
		c.log.WarnContext(ctx, "Invalid employee data format for transformation", "id", id)
		return models.Profile{}, false, nil
	}

	c.metrics.ProfilesJoined.WithLabelValues("present").Inc()
	c.log.DebugContext(ctx, "Transformed employee data", "id", id, "department", profile.Department)

	return profile, true, nil
}

// ListProfiles reads the whole directory and the department table together and joins
// every staff record. Records that do not join are skipped.
func (c *Client) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	var (
		staff       []models.RawStaffRecord
		departments []models.RawDepartment
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		staff, err = c.listStaff(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		departments, err = c.ListDepartments(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		c.log.ErrorContext(ctx, "Error listing directory", "error", err)
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]models.Profile, 0, len(staff))
	for i := range staff {
		profile, ok := Join(&staff[i], departments)
		if !ok {
			continue
		}
		profiles = append(profiles, profile)
	}
	c.metrics.ProfilesJoined.WithLabelValues("present").Add(float64(len(profiles)))

	return profiles, nil
}
