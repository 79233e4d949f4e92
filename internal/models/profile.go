package models

// Profile is the display-ready view of one staff member: the department reference is
// resolved to its name and every address field is present.
type Profile struct {
	StaffID    int     `json:"StaffId"`    // Identifier of the staff member
	Name       string  `json:"Name"`       // Full name
	Phone      string  `json:"Phone"`      // Phone number
	Department string  `json:"Department"` // Department name, "Unknown" when unresolved
	Address    Address `json:"Address"`    // Address, "N/A" for every missing field
}
