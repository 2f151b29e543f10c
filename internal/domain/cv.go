package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Cv struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Summary   string    `json:"summary" db:"summary"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Components []*CvComponent `json:"components,omitempty" db:"-"`
}

func (c *Cv) Validate() error {
	vb := NewValidationBuilder[*Cv]()
	vb.Field("title", c.Title).Required().String().MaxLength(200).SecureSanitize()
	vb.Field("summary", c.Summary).String().MaxLength(3000).SecureSanitize()
	return vb.Build()
}

func (c *Cv) BeforeSave() {
	c.Title = sanitize(c.Title)
	c.Summary = sanitize(c.Summary)

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
}

// ComponentsOfType returns the components of one type ordered by position.
func (c *Cv) ComponentsOfType(t ComponentType) []*CvComponent {
	var out []*CvComponent
	for _, comp := range c.Components {
		if comp.Type == t {
			out = append(out, comp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// CvDocument is the typed, assembled view of a CV that the matching engine consumes.
type CvDocument struct {
	Title          string           `json:"title"`
	Summary        string           `json:"summary"`
	PersonalInfo   *PersonalInfo    `json:"personal_info,omitempty"`
	Education      []*Education     `json:"education,omitempty"`
	Experience     []*Experience    `json:"experience,omitempty"`
	Skills         []*Skill         `json:"skills,omitempty"`
	Certifications []*Certification `json:"certifications,omitempty"`
	Languages      []*Language      `json:"languages,omitempty"`
	Projects       []*Project       `json:"projects,omitempty"`
}

// Document decodes every component into the typed view.
func (c *Cv) Document() (*CvDocument, error) {
	doc := &CvDocument{Title: c.Title, Summary: c.Summary}

	sorted := make([]*CvComponent, len(c.Components))
	copy(sorted, c.Components)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	for _, comp := range sorted {
		payload, err := comp.Decode()
		if err != nil {
			return nil, err
		}
		switch p := payload.(type) {
		case *PersonalInfo:
			doc.PersonalInfo = p
		case *Education:
			doc.Education = append(doc.Education, p)
		case *Experience:
			doc.Experience = append(doc.Experience, p)
		case *Skill:
			doc.Skills = append(doc.Skills, p)
		case *Certification:
			doc.Certifications = append(doc.Certifications, p)
		case *Language:
			doc.Languages = append(doc.Languages, p)
		case *Project:
			doc.Projects = append(doc.Projects, p)
		}
	}
	return doc, nil
}

// SkillNames returns every skill-like term in the document: the skills section
// plus project technologies.
func (d *CvDocument) SkillNames() []string {
	var names []string
	for _, s := range d.Skills {
		names = append(names, s.Name)
	}
	for _, p := range d.Projects {
		names = append(names, p.Technologies...)
	}
	return names
}

// FullText concatenates every free-text field of the document for keyword matching.
func (d *CvDocument) FullText() string {
	var b strings.Builder
	write := func(parts ...string) {
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				b.WriteString(p)
				b.WriteByte('\n')
			}
		}
	}

	write(d.Title, d.Summary)
	if d.PersonalInfo != nil {
		write(d.PersonalInfo.Headline)
	}
	for _, e := range d.Experience {
		write(e.JobTitle, e.Employer, e.Description)
		write(e.Achievements...)
	}
	for _, e := range d.Education {
		write(e.Degree, e.Field, e.Institution, e.Description)
	}
	for _, s := range d.Skills {
		write(s.Name)
	}
	for _, c := range d.Certifications {
		write(c.Name, c.Issuer)
	}
	for _, l := range d.Languages {
		write(l.Name)
	}
	for _, p := range d.Projects {
		write(p.Name, p.Description)
		write(p.Technologies...)
	}
	return b.String()
}
