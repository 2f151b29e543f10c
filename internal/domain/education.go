package domain

import (
	"strings"
)

type Education struct {
	Institution string `json:"institution"`
	Location    string `json:"location,omitempty"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"start_date"` // Format: YYYY-MM-DD
	EndDate     string `json:"end_date"`   // Format: YYYY-MM-DD or "Present"
	Description string `json:"description,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

func (e *Education) Validate() error {
	vb := NewValidationBuilder[*Education]()

	vb.Field("institution", e.Institution).
		Required().
		String().
		MaxLength(200).
		SecureSanitize()

	vb.Field("degree", e.Degree).
		Required().
		String().
		MaxLength(200).
		SecureSanitize()

	vb.Field("start_date", e.StartDate).
		Required().
		Date().
		ISO8601()

	vb.Field("location", e.Location).String().MaxLength(200).SecureSanitize()
	vb.Field("field", e.Field).String().MaxLength(200).SecureSanitize()

	if e.EndDate != "" && e.EndDate != PresentDate {
		vb.Field("end_date", e.EndDate).
			Date().
			ISO8601().
			NotBefore(e.StartDate)
	}

	vb.Field("description", e.Description).String().MaxLength(1000).SecureSanitize()

	if e.GPA != "" {
		vb.Field("gpa", e.GPA).
			String().
			Pattern(`^\d+\.?\d*$`, "GPA must be a valid number (e.g., 3.5, 4.0)")
	}

	return vb.Build()
}

func (e *Education) BeforeSave() {
	e.Institution = sanitize(e.Institution)
	e.Location = sanitize(e.Location)
	e.Degree = sanitize(e.Degree)
	e.Field = sanitize(e.Field)

	// Date fields don't need HTML sanitization, just trim
	e.StartDate = strings.TrimSpace(e.StartDate)
	e.EndDate = strings.TrimSpace(e.EndDate)

	e.Description = sanitize(e.Description)
	e.GPA = strings.TrimSpace(e.GPA)
}
