package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

type ExperienceLevel string

const (
	ExperienceLevelEntry     ExperienceLevel = "entry"     // 0-2 years
	ExperienceLevelJunior    ExperienceLevel = "junior"    // 2-4 years
	ExperienceLevelMid       ExperienceLevel = "mid"       // 4-7 years
	ExperienceLevelSenior    ExperienceLevel = "senior"    // 7-12 years
	ExperienceLevelLead      ExperienceLevel = "lead"      // 10+ years
	ExperienceLevelExecutive ExperienceLevel = "executive" // 15+ years
)

type EducationLevel string

const (
	EducationLevelNone       EducationLevel = "none"
	EducationLevelHighSchool EducationLevel = "high_school"
	EducationLevelAssociate  EducationLevel = "associate"
	EducationLevelBachelor   EducationLevel = "bachelor"
	EducationLevelMaster     EducationLevel = "master"
	EducationLevelDoctorate  EducationLevel = "doctorate"
)

var educationRanks = map[EducationLevel]int{
	EducationLevelNone:       0,
	EducationLevelHighSchool: 1,
	EducationLevelAssociate:  2,
	EducationLevelBachelor:   3,
	EducationLevelMaster:     4,
	EducationLevelDoctorate:  5,
}

// Rank orders education levels; unknown or empty levels rank as none.
func (l EducationLevel) Rank() int {
	return educationRanks[l]
}

// JobRequirements is what the extractor pulls out of a job description.
type JobRequirements struct {
	RequiredSkills     []string        `json:"required_skills"`
	PreferredSkills    []string        `json:"preferred_skills"`
	Keywords           []string        `json:"keywords"`
	MinExperienceYears int             `json:"min_experience_years,omitempty"`
	EducationLevel     EducationLevel  `json:"education_level,omitempty"`
	ExperienceLevel    ExperienceLevel `json:"experience_level,omitempty"`
}

type JobPosting struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	Title        string          `json:"title" db:"title"`
	Company      string          `json:"company,omitempty" db:"company"`
	Location     string          `json:"location,omitempty" db:"location"`
	URL          string          `json:"url,omitempty" db:"url"`
	Description  string          `json:"description" db:"description"`
	Requirements JobRequirements `json:"requirements" db:"requirements"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

func (j *JobPosting) Validate() error {
	vb := NewValidationBuilder[*JobPosting]()
	vb.Field("title", j.Title).Required().String().MaxLength(255).SecureSanitize()
	vb.Field("company", j.Company).String().MaxLength(255).SecureSanitize()
	vb.Field("location", j.Location).String().MaxLength(255).SecureSanitize()
	vb.Field("url", j.URL).String().MaxLength(500).Pattern(`^https?://`, "must be an http(s) URL")
	vb.Field("description", j.Description).Required().String().MinLength(30).MaxLength(20000)
	return vb.Build()
}

var blockTags = regexp.MustCompile(`(?i)</?(p|li|br|div|ul|ol|tr|h[1-6])\b[^>]*>`)

// BeforeSave strips markup. Job descriptions are often pasted from HTML pages,
// so tags in the description are removed rather than rejected.
func (j *JobPosting) BeforeSave() {
	j.Title = sanitize(j.Title)
	j.Company = sanitize(j.Company)
	j.Location = sanitize(j.Location)
	j.URL = sanitize(j.URL)
	j.Description = sanitize(blockTags.ReplaceAllString(j.Description, "\n"))

	now := time.Now()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now

	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
}
