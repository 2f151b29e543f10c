package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ComponentType string

const (
	ComponentPersonalInfo  ComponentType = "personal_info"
	ComponentEducation     ComponentType = "education"
	ComponentExperience    ComponentType = "experience"
	ComponentSkill         ComponentType = "skill"
	ComponentCertification ComponentType = "certification"
	ComponentLanguage      ComponentType = "language"
	ComponentProject       ComponentType = "project"
)

var validComponentTypes = map[ComponentType]bool{
	ComponentPersonalInfo:  true,
	ComponentEducation:     true,
	ComponentExperience:    true,
	ComponentSkill:         true,
	ComponentCertification: true,
	ComponentLanguage:      true,
	ComponentProject:       true,
}

func (t ComponentType) IsValid() bool {
	return validComponentTypes[t]
}

// CvComponent is one section entry of a CV. Data holds the typed payload as JSON.
type CvComponent struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	CvID      uuid.UUID       `json:"cv_id" db:"cv_id"`
	Type      ComponentType   `json:"type" db:"type"`
	Position  int             `json:"position" db:"position"`
	Data      json.RawMessage `json:"data" db:"data"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// NewComponentPayload returns an empty typed payload for the component type.
func NewComponentPayload(t ComponentType) (DomainModel, error) {
	if !t.IsValid() {
		return nil, NewValidationError("type", fmt.Sprintf("unknown component type %q", t), ErrInvalidField)
	}
	switch t {
	case ComponentPersonalInfo:
		return &PersonalInfo{}, nil
	case ComponentEducation:
		return &Education{}, nil
	case ComponentExperience:
		return &Experience{}, nil
	case ComponentSkill:
		return &Skill{}, nil
	case ComponentCertification:
		return &Certification{}, nil
	case ComponentLanguage:
		return &Language{}, nil
	default:
		return &Project{}, nil
	}
}

// DecodeComponentData parses, validates and sanitizes raw component data.
// The returned JSON is the cleaned payload to persist.
func DecodeComponentData(t ComponentType, raw json.RawMessage) (DomainModel, json.RawMessage, error) {
	payload, err := NewComponentPayload(t)
	if err != nil {
		return nil, nil, err
	}
	if len(raw) == 0 {
		return nil, nil, NewValidationError("data", "data is required", ErrRequired)
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, nil, NewValidationError("data", "data is not a valid "+string(t)+" object", ErrInvalidField)
	}
	if err := payload.Validate(); err != nil {
		return nil, nil, PrefixErrors("data", err)
	}
	payload.BeforeSave()

	cleaned, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return payload, cleaned, nil
}

// Decode unmarshals the stored payload without re-validating it.
func (c *CvComponent) Decode() (DomainModel, error) {
	payload, err := NewComponentPayload(c.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(c.Data, payload); err != nil {
		return nil, fmt.Errorf("decode %s component %s: %w", c.Type, c.ID, err)
	}
	return payload, nil
}

type PersonalInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	Headline string `json:"headline,omitempty"`
}

func (p *PersonalInfo) Validate() error {
	vb := NewValidationBuilder[*PersonalInfo]()

	vb.Field("full_name", p.FullName).Required().String().MaxLength(200).SecureSanitize()
	vb.Field("email", p.Email).String().MaxLength(254).
		Pattern(`^[^@\s]+@[^@\s]+\.[^@\s]+$`, "must be a valid email address")
	vb.Field("phone", p.Phone).String().MaxLength(40).
		Pattern(`^\+?[0-9 ()\-.]{5,}$`, "must be a valid phone number")
	vb.Field("location", p.Location).String().MaxLength(200).SecureSanitize()
	vb.Field("linkedin", p.LinkedIn).String().MaxLength(300).SecureSanitize()
	vb.Field("website", p.Website).String().MaxLength(300).SecureSanitize()
	vb.Field("headline", p.Headline).String().MaxLength(300).SecureSanitize()

	return vb.Build()
}

func (p *PersonalInfo) BeforeSave() {
	p.FullName = sanitize(p.FullName)
	p.Email = NormalizeEmail(p.Email)
	p.Phone = sanitize(p.Phone)
	p.Location = sanitize(p.Location)
	p.LinkedIn = sanitize(p.LinkedIn)
	p.Website = sanitize(p.Website)
	p.Headline = sanitize(p.Headline)
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

func (c *Certification) Validate() error {
	vb := NewValidationBuilder[*Certification]()
	vb.Field("name", c.Name).Required().String().MaxLength(200).SecureSanitize()
	vb.Field("issuer", c.Issuer).String().MaxLength(200).SecureSanitize()
	vb.Field("date", c.Date).Date().ISO8601()
	return vb.Build()
}

func (c *Certification) BeforeSave() {
	c.Name = sanitize(c.Name)
	c.Issuer = sanitize(c.Issuer)
}

type Language struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

var languageLevels = []string{"basic", "conversational", "professional", "fluent", "native"}

func (l *Language) Validate() error {
	vb := NewValidationBuilder[*Language]()
	vb.Field("name", l.Name).String().NotEmpty().MaxLength(100).SecureSanitize()
	vb.Field("level", strings.ToLower(strings.TrimSpace(l.Level))).String().OneOf(languageLevels...)
	return vb.Build()
}

func (l *Language) BeforeSave() {
	l.Name = sanitize(l.Name)
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
}

func (p *Project) Validate() error {
	vb := NewValidationBuilder[*Project]()
	vb.Field("name", p.Name).Required().String().MaxLength(200).SecureSanitize()
	vb.Field("description", p.Description).String().MaxLength(2000).SecureSanitize()
	vb.Field("technologies", p.Technologies).StringSlice().MaxLength(30).EachMaxLength(100).EachSecureSanitize()
	vb.Field("url", p.URL).String().MaxLength(300).Pattern(`^https?://`, "must be an http(s) URL")
	return vb.Build()
}

func (p *Project) BeforeSave() {
	p.Name = sanitize(p.Name)
	p.Description = sanitize(p.Description)
	p.Technologies = sanitizeAll(p.Technologies)
	p.URL = sanitize(p.URL)
}
