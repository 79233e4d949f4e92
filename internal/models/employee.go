package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotNumeric is returned when an identifier field carries a string that is not a base-10 integer.
	ErrNotNumeric = errors.New("identifier is not numeric")
	// ErrNotText is returned when a text field carries an object or an array.
	ErrNotText = errors.New("field is not text")
	// ErrMissingFields is returned when a person lacks a name, a phone number or a department.
	ErrMissingFields = errors.New("name, phone and department are required")
)

// FlexInt is an integer that decodes from either a JSON number or a string holding a base-10 integer.
// A JSON null or a missing field leaves it at zero.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("failed to decode identifier string: %w", err)
		}
		value, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrNotNumeric, text)
		}
		*n = FlexInt(value)
		return nil
	}

	var number float64
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("%w: %s", ErrNotNumeric, data)
	}
	truncated := math.Trunc(number)
	if truncated < math.MinInt || truncated >= -math.MinInt {
		return fmt.Errorf("%w: %s is out of range", ErrNotNumeric, data)
	}
	*n = FlexInt(truncated)

	return nil
}

// FlexString is text that also accepts JSON numbers and booleans, keeping their literal form.
// A JSON null or a missing field leaves it empty.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("failed to decode text: %w", err)
		}
		*s = FlexString(text)
	case '{', '[':
		return fmt.Errorf("%w: %s", ErrNotText, data)
	default:
		*s = FlexString(data)
	}

	return nil
}

// RawAddress is the nested address object of a staff record as the directory service sends it.
type RawAddress struct {
	Street  FlexString `json:"Street,omitempty"`
	City    FlexString `json:"City,omitempty"`
	State   FlexString `json:"State,omitempty"`
	ZIP     FlexString `json:"ZIP,omitempty"`
	Country FlexString `json:"Country,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. Anything other than an object,
// such as an empty string, decodes as an address without fields.
func (a *RawAddress) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*a = RawAddress{}
		return nil
	}

	type plain RawAddress
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*a = RawAddress(decoded)

	return nil
}

// ToAddress converts the raw fields into an Address. Missing fields stay empty.
func (a RawAddress) ToAddress() Address {
	return Address{
		Street:  string(a.Street),
		City:    string(a.City),
		State:   string(a.State),
		ZIP:     string(a.ZIP),
		Country: string(a.Country),
	}
}

// RawStaffRecord is a staff record exactly as decoded from GET /people/{id}.
type RawStaffRecord struct {
	ID           FlexInt     `json:"Id"`                // Staff identifier, number or numeric string
	Name         FlexString  `json:"Name"`              // Full name of the staff member
	Phone        FlexString  `json:"Phone"`             // Phone number of the staff member
	DepartmentID FlexInt     `json:"DepartmentId"`      // Reference into the department table
	Address      *RawAddress `json:"Address,omitempty"` // Optional postal address
}

// Address is a fully populated postal address.
type Address struct {
	Street  string `json:"Street"`
	City    string `json:"City"`
	State   string `json:"State"`
	ZIP     string `json:"ZIP"`
	Country string `json:"Country"`
}

// Person is an editable staff record. It is the payload of create and update requests
// and the row type of the people table.
type Person struct {
	ID           int     `json:"Id"`
	Name         string  `json:"Name"`
	Phone        string  `json:"Phone"`
	DepartmentID int     `json:"DepartmentId"`
	Address      Address `json:"Address"`
}

// Validate reports ErrMissingFields when the person cannot be saved.
func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Phone) == "" || p.DepartmentID == 0 {
		return ErrMissingFields
	}

	return nil
}

// ToPerson converts a raw record into an editable person. Missing address fields stay empty.
func (r RawStaffRecord) ToPerson() Person {
	person := Person{
		ID:           int(r.ID),
		Name:         string(r.Name),
		Phone:        string(r.Phone),
		DepartmentID: int(r.DepartmentID),
	}
	if r.Address != nil {
		person.Address = r.Address.ToAddress()
	}

	return person
}
