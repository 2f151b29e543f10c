package domain

import (
	"strings"
	"time"
)

type Experience struct {
	Employer     string   `json:"employer"`
	JobTitle     string   `json:"title"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date"` // Format: YYYY-MM-DD
	EndDate      string   `json:"end_date"`   // Format: YYYY-MM-DD or "Present"
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

func (e *Experience) Validate() error {
	vb := NewValidationBuilder[*Experience]()

	vb.Field("employer", e.Employer).Required().String().MaxLength(200).SecureSanitize()
	vb.Field("title", e.JobTitle).Required().String().MaxLength(200).SecureSanitize()
	vb.Field("start_date", e.StartDate).Required().Date().ISO8601()
	vb.Field("location", e.Location).String().MaxLength(200).SecureSanitize()

	if e.EndDate != "" && e.EndDate != PresentDate {
		vb.Field("end_date", e.EndDate).Date().ISO8601().NotBefore(e.StartDate)
	}

	vb.Field("description", e.Description).String().MaxLength(2000).SecureSanitize()

	vb.Field("achievements", e.Achievements).StringSlice().
		MaxLength(20).
		EachMaxLength(500).
		EachSecureSanitize()

	return vb.Build()
}

func (e *Experience) BeforeSave() {
	e.Employer = sanitize(e.Employer)
	e.JobTitle = sanitize(e.JobTitle)
	e.Location = sanitize(e.Location)
	e.StartDate = strings.TrimSpace(e.StartDate)
	e.EndDate = strings.TrimSpace(e.EndDate)
	e.Description = sanitize(e.Description)
	e.Achievements = sanitizeAll(e.Achievements)
}

// Period resolves the entry to a time interval. Ongoing entries end at now.
// ok is false when the start date cannot be parsed.
func (e *Experience) Period(now time.Time) (start, end time.Time, ok bool) {
	start, err := time.Parse(DateLayout, e.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end = now
	if e.EndDate != "" && e.EndDate != PresentDate {
		if parsed, err := time.Parse(DateLayout, e.EndDate); err == nil {
			end = parsed
		}
	}
	if end.Before(start) {
		end = start
	}
	return start, end, true
}
