package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/matching"
)

const maxSkillBatch = 50

// SkillService manages the skill components of a CV.
type SkillService interface {
	GetCvSkills(ctx context.Context, userID, cvID uuid.UUID, category string) ([]*dto.SkillResponse, error)
	CreateSkill(ctx context.Context, userID, cvID uuid.UUID, req *dto.SkillCreateRequest) (*dto.SkillResponse, error)
	CreateSkillsBatch(ctx context.Context, userID, cvID uuid.UUID, requests []*dto.SkillCreateRequest) ([]*dto.SkillResponse, error)
	GetSkillCategories() []string
}

type skillService struct {
	cvService CvService
	cvRepo    domain.CvRepository
}

func NewSkillService(cvService CvService, cvRepo domain.CvRepository) SkillService {
	return &skillService{cvService: cvService, cvRepo: cvRepo}
}

func (s *skillService) GetCvSkills(ctx context.Context, userID, cvID uuid.UUID, category string) ([]*dto.SkillResponse, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && !domain.IsValidSkillCategory(category) {
		return nil, domain.NewValidationError("category",
			"category must be one of "+strings.Join(domain.GetSkillCategoryKeys(), ", "), domain.ErrInvalidField)
	}

	cv, err := s.cvService.GetCv(ctx, userID, cvID)
	if err != nil {
		return nil, err
	}

	skills := make([]*dto.SkillResponse, 0)
	for _, c := range cv.ComponentsOfType(domain.ComponentSkill) {
		payload, err := c.Decode()
		if err != nil {
			return nil, err
		}
		skill := payload.(*domain.Skill)
		if category != "" && skill.Category != category {
			continue
		}
		skills = append(skills, dto.NewSkillResponse(c, skill))
	}
	return skills, nil
}

func (s *skillService) CreateSkill(ctx context.Context, userID, cvID uuid.UUID, req *dto.SkillCreateRequest) (*dto.SkillResponse, error) {
	created, err := s.createSkills(ctx, userID, cvID, []*dto.SkillCreateRequest{req}, false)
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// CreateSkillsBatch validates every skill before storing any. Names must be
// unique case-insensitively, within the batch and against the CV.
func (s *skillService) CreateSkillsBatch(ctx context.Context, userID, cvID uuid.UUID, requests []*dto.SkillCreateRequest) ([]*dto.SkillResponse, error) {
	if len(requests) == 0 {
		return nil, domain.NewValidationError("skills", "at least one skill is required", domain.ErrRequired)
	}
	if len(requests) > maxSkillBatch {
		return nil, domain.NewValidationError("skills", fmt.Sprintf("maximum %d skills per batch", maxSkillBatch), domain.ErrMaxLength)
	}
	return s.createSkills(ctx, userID, cvID, requests, true)
}

func (s *skillService) createSkills(ctx context.Context, userID, cvID uuid.UUID, requests []*dto.SkillCreateRequest, batch bool) ([]*dto.SkillResponse, error) {
	cv, err := s.cvService.GetCv(ctx, userID, cvID)
	if err != nil {
		return nil, err
	}

	existing := skillNames(cv, uuid.Nil)
	var errs domain.ValidationErrors
	components := make([]*domain.CvComponent, 0, len(requests))
	skills := make([]*domain.Skill, 0, len(requests))

	for i, req := range requests {
		nameField := "name"
		skill := req.ToSkill()
		if err := skill.Validate(); err != nil {
			if batch {
				err = domain.PrefixErrors(fmt.Sprintf("skills[%d]", i), err)
			}
			if list, ok := domain.AsValidationErrors(err); ok {
				errs = append(errs, list...)
				continue
			}
			return nil, err
		}
		if skill.Category == "" {
			skill.Category = matching.SkillCategory(skill.Name)
		}
		skill.BeforeSave()

		key := strings.ToLower(skill.Name)
		if existing[key] {
			if batch {
				nameField = fmt.Sprintf("skills[%d].name", i)
			}
			errs = append(errs, domain.NewValidationError(nameField,
				fmt.Sprintf("skill %q already exists", skill.Name), domain.ErrDuplicate))
			continue
		}
		existing[key] = true

		data, err := json.Marshal(skill)
		if err != nil {
			return nil, fmt.Errorf("marshal skill: %w", err)
		}
		components = append(components, newComponent(cvID, domain.ComponentSkill, data))
		skills = append(skills, skill)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if err := s.cvRepo.AddComponents(ctx, components); err != nil {
		return nil, fmt.Errorf("failed to create skills: %w", err)
	}

	out := make([]*dto.SkillResponse, 0, len(components))
	for i, c := range components {
		out = append(out, dto.NewSkillResponse(c, skills[i]))
	}
	return out, nil
}

func (s *skillService) GetSkillCategories() []string {
	return domain.GetSkillCategoryKeys()
}
