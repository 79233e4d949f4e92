package models

// RawDepartment is one entry of the department table as decoded from GET /departments.
type RawDepartment struct {
	ID   FlexInt `json:"Id"`
	Name string  `json:"Name"`
}

// Department is a row of the departments table served by the directory service.
type Department struct {
	ID   int    `json:"Id"`
	Name string `json:"Name"`
}
