package domain

import (
	"sort"
	"strings"
)

const (
	SkillCategoryLanguage  = "language"
	SkillCategoryFramework = "framework"
	SkillCategoryTool      = "tool"
	SkillCategoryDatabase  = "database"
	SkillCategoryCloud     = "cloud"
	SkillCategorySoft      = "soft"
	SkillCategoryOther     = "other"
)

// ValidSkillCategories is used for quick category membership checks.
var ValidSkillCategories = map[string]bool{
	SkillCategoryLanguage:  true,
	SkillCategoryFramework: true,
	SkillCategoryTool:      true,
	SkillCategoryDatabase:  true,
	SkillCategoryCloud:     true,
	SkillCategorySoft:      true,
	SkillCategoryOther:     true,
}

// Skill is a single entry of a CV skills section with an optional proficiency level.
type Skill struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Category    string `json:"category" validate:"omitempty,oneof=language framework tool database cloud soft other"`
	Proficiency int    `json:"proficiency,omitempty"`
}

const (
	MinProficiency = 1
	MaxProficiency = 5
)

func (s *Skill) Validate() error {
	err := ValidateStruct(s)
	list, ok := AsValidationErrors(err)
	if err != nil && !ok {
		return err
	}

	vb := NewValidationBuilder[*Skill]()
	vb.errors = list
	vb.Field("name", s.Name).String().SecureSanitize()
	if s.Proficiency != 0 {
		vb.Field("proficiency", s.Proficiency).Int().Range(MinProficiency, MaxProficiency)
	}
	return vb.Build()
}

func (s *Skill) BeforeSave() {
	s.Name = sanitize(s.Name)
	s.Category = strings.ToLower(strings.TrimSpace(s.Category))

	if s.Category == "" {
		s.Category = SkillCategoryOther
	}
}

// GetSkillCategoryKeys returns every valid skill category in a stable order.
func GetSkillCategoryKeys() []string {
	keys := make([]string, 0, len(ValidSkillCategories))
	for k := range ValidSkillCategories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func IsValidSkillCategory(category string) bool {
	return ValidSkillCategories[category]
}
