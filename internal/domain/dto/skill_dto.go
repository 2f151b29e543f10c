package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

type SkillCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Category    string `json:"category" binding:"omitempty,oneof=language framework tool database cloud soft other"`
	Proficiency int    `json:"proficiency" binding:"omitempty,min=1,max=5"`
}

// ToSkill converts the request into the component payload.
func (req *SkillCreateRequest) ToSkill() *domain.Skill {
	return &domain.Skill{
		Name:        req.Name,
		Category:    req.Category,
		Proficiency: req.Proficiency,
	}
}

// BatchCreateRequest items are validated by the skill service so that every
// failing item is reported with its index.
type BatchCreateRequest struct {
	Skills []*SkillCreateRequest `json:"skills" binding:"required"`
}

// SkillResponse is a skill component flattened for API consumers.
type SkillResponse struct {
	ID          uuid.UUID `json:"id"`
	CvID        uuid.UUID `json:"cv_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Proficiency int       `json:"proficiency,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewSkillResponse(component *domain.CvComponent, skill *domain.Skill) *SkillResponse {
	return &SkillResponse{
		ID:          component.ID,
		CvID:        component.CvID,
		Name:        skill.Name,
		Category:    skill.Category,
		Proficiency: skill.Proficiency,
		Position:    component.Position,
		CreatedAt:   component.CreatedAt,
		UpdatedAt:   component.UpdatedAt,
	}
}

type SkillsListResponse struct {
	Skills []*SkillResponse `json:"skills"`
	Total  int              `json:"total"`
	Filter FilterInfo       `json:"filter"`
}

type FilterInfo struct {
	Category string `json:"category,omitempty"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Total      int      `json:"total"`
}
