package directory

import "github.com/UnknownOlympus/atlas/internal/models"

const (
	// UnknownDepartment is the department label used when the reference does not resolve.
	UnknownDepartment = "Unknown"
	// NotAvailable replaces every missing address field.
	NotAvailable = "N/A"
)

// Join combines a staff record with the department table into a profile.
// It reports false when there is no staff record to join. The first department whose
// id equals the record's department id supplies the label; an unmatched or unnamed
// department becomes UnknownDepartment.
func Join(staff *models.RawStaffRecord, departments []models.RawDepartment) (models.Profile, bool) {
	if staff == nil {
		return models.Profile{}, false
	}

	department := UnknownDepartment
	for _, dept := range departments {
		if dept.ID == staff.DepartmentID {
			if dept.Name != "" {
				department = dept.Name
			}
			break
		}
	}

	var address models.Address
	if staff.Address != nil {
		address = staff.Address.ToAddress()
	}

	return models.Profile{
		StaffID:    int(staff.ID),
		Name:       string(staff.Name),
		Phone:      string(staff.Phone),
		Department: department,
		Address: models.Address{
			Street:  orNotAvailable(address.Street),
			City:    orNotAvailable(address.City),
			State:   orNotAvailable(address.State),
			ZIP:     orNotAvailable(address.ZIP),
			Country: orNotAvailable(address.Country),
		},
	}, true
}

func orNotAvailable(value string) string {
	if value == "" {
		return NotAvailable
	}
	return value
}
