package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/matching"
)

type CvService interface {
	ListCvs(ctx context.Context, userID uuid.UUID) ([]*domain.Cv, error)
	CreateCv(ctx context.Context, userID uuid.UUID, req *dto.CvRequest) (*domain.Cv, error)
	// GetCv returns the CV with its components. ErrNotFound for unknown ids,
	// ErrForbidden for CVs of another user.
	GetCv(ctx context.Context, userID, cvID uuid.UUID) (*domain.Cv, error)
	UpdateCv(ctx context.Context, userID, cvID uuid.UUID, req *dto.CvRequest) (*domain.Cv, error)
	DeleteCv(ctx context.Context, userID, cvID uuid.UUID) error

	AddComponent(ctx context.Context, userID, cvID uuid.UUID, req *dto.ComponentCreateRequest) (*domain.CvComponent, error)
	UpdateComponent(ctx context.Context, userID, cvID, componentID uuid.UUID, data json.RawMessage) (*domain.CvComponent, error)
	DeleteComponent(ctx context.Context, userID, cvID, componentID uuid.UUID) error
	ReorderComponents(ctx context.Context, userID, cvID uuid.UUID, orderedIDs []uuid.UUID) ([]*domain.CvComponent, error)
}

type cvService struct {
	cvRepo domain.CvRepository
}

func NewCvService(cvRepo domain.CvRepository) CvService {
	return &cvService{cvRepo: cvRepo}
}

func (s *cvService) ListCvs(ctx context.Context, userID uuid.UUID) ([]*domain.Cv, error) {
	cvs, err := s.cvRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cvs: %w", err)
	}
	return cvs, nil
}

func (s *cvService) CreateCv(ctx context.Context, userID uuid.UUID, req *dto.CvRequest) (*domain.Cv, error) {
	cv := &domain.Cv{UserID: userID, Title: req.Title, Summary: req.Summary}
	if err := cv.Validate(); err != nil {
		return nil, err
	}
	cv.BeforeSave()

	if err := s.cvRepo.Create(ctx, cv); err != nil {
		return nil, fmt.Errorf("failed to create cv: %w", err)
	}
	cv.Components = []*domain.CvComponent{}
	return cv, nil
}

func (s *cvService) GetCv(ctx context.Context, userID, cvID uuid.UUID) (*domain.Cv, error) {
	cv, err := s.cvRepo.GetByID(ctx, cvID)
	if err != nil {
		return nil, err
	}
	if cv.UserID != userID {
		log.Warn().Str("user_id", userID.String()).Str("cv_id", cvID.String()).Msg("cv access denied")
		return nil, domain.ErrForbidden
	}
	return cv, nil
}

func (s *cvService) UpdateCv(ctx context.Context, userID, cvID uuid.UUID, req *dto.CvRequest) (*domain.Cv, error) {
	cv, err := s.GetCv(ctx, userID, cvID)
	if err != nil {
		return nil, err
	}

	cv.Title = req.Title
	cv.Summary = req.Summary
	if err := cv.Validate(); err != nil {
		return nil, err
	}
	cv.BeforeSave()

	if err := s.cvRepo.Update(ctx, cv); err != nil {
		return nil, fmt.Errorf("failed to update cv: %w", err)
	}
	return cv, nil
}

func (s *cvService) DeleteCv(ctx context.Context, userID, cvID uuid.UUID) error {
	if _, err := s.GetCv(ctx, userID, cvID); err != nil {
		return err
	}
	return s.cvRepo.Delete(ctx, cvID)
}

// AddComponent validates data against the component type before storing it.
// A CV holds at most one personal_info component and no duplicate skill names.
func (s *cvService) AddComponent(ctx context.Context, userID, cvID uuid.UUID, req *dto.ComponentCreateRequest) (*domain.CvComponent, error) {
	cv, err := s.GetCv(ctx, userID, cvID)
	if err != nil {
		return nil, err
	}

	componentType := domain.ComponentType(strings.ToLower(strings.TrimSpace(req.Type)))
	payload, cleaned, err := decodeComponent(componentType, req.Data)
	if err != nil {
		return nil, err
	}
	if err := checkUnique(cv, componentType, payload, uuid.Nil); err != nil {
		return nil, err
	}

	component := newComponent(cvID, componentType, cleaned)
	if err := s.cvRepo.AddComponent(ctx, component); err != nil {
		return nil, fmt.Errorf("failed to add component: %w", err)
	}
	return component, nil
}

func (s *cvService) UpdateComponent(ctx context.Context, userID, cvID, componentID uuid.UUID, data json.RawMessage) (*domain.CvComponent, error) {
	cv, err := s.GetCv(ctx, userID, cvID)
	if err != nil {
		return nil, err
	}
	component, err := findComponent(cv, componentID)
	if err != nil {
		return nil, err
	}

	payload, cleaned, err := decodeComponent(component.Type, data)
	if err != nil {
		return nil, err
	}
	if err := checkUnique(cv, component.Type, payload, component.ID); err != nil {
		return nil, err
	}

	component.Data = cleaned
	component.UpdatedAt = time.Now()
	if err := s.cvRepo.UpdateComponent(ctx, component); err != nil {
		return nil, fmt.Errorf("failed to update component: %w", err)
	}
	return component, nil
}

func (s *cvService) DeleteComponent(ctx context.Context, userID, cvID, componentID uuid.UUID) error {
	cv, err := s.GetCv(ctx, userID, cvID)
	if err != nil {
		return err
	}
	if _, err := findComponent(cv, componentID); err != nil {
		return err
	}
	return s.cvRepo.DeleteComponent(ctx, componentID)
}

// ReorderComponents requires the full set of the CV's component ids, each
// exactly once.
func (s *cvService) ReorderComponents(ctx context.Context, userID, cvID uuid.UUID, orderedIDs []uuid.UUID) ([]*domain.CvComponent, error) {
	cv, err := s.GetCv(ctx, userID, cvID)
	if err != nil {
		return nil, err
	}

	known := make(map[uuid.UUID]bool, len(cv.Components))
	for _, c := range cv.Components {
		known[c.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] {
			return nil, domain.NewValidationError("component_ids", fmt.Sprintf("component %s does not belong to this cv", id), domain.ErrInvalidField)
		}
		if seen[id] {
			return nil, domain.NewValidationError("component_ids", fmt.Sprintf("component %s is listed twice", id), domain.ErrDuplicate)
		}
		seen[id] = true
	}
	if len(seen) != len(known) {
		return nil, domain.NewValidationError("component_ids", "every component of the cv must be listed", domain.ErrRequired)
	}

	if err := s.cvRepo.ReorderComponents(ctx, cvID, orderedIDs); err != nil {
		return nil, fmt.Errorf("failed to reorder components: %w", err)
	}
	return s.cvRepo.ListComponents(ctx, cvID)
}

// decodeComponent validates component data. Skills without a category get
// the taxonomy category, as on the skills endpoints.
func decodeComponent(t domain.ComponentType, raw json.RawMessage) (domain.DomainModel, json.RawMessage, error) {
	if t == domain.ComponentSkill {
		raw = categorizeSkill(raw)
	}
	return domain.DecodeComponentData(t, raw)
}

func categorizeSkill(raw json.RawMessage) json.RawMessage {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return raw
	}
	name, _ := fields["name"].(string)
	if strings.TrimSpace(name) == "" {
		return raw
	}
	if v, ok := fields["category"]; ok && v != nil {
		if category, isString := v.(string); !isString || strings.TrimSpace(category) != "" {
			return raw
		}
	}
	fields["category"] = matching.SkillCategory(name)
	out, err := json.Marshal(fields)
	if err != nil {
		return raw
	}
	return out
}

func newComponent(cvID uuid.UUID, t domain.ComponentType, data json.RawMessage) *domain.CvComponent {
	now := time.Now()
	return &domain.CvComponent{
		ID:        uuid.New(),
		CvID:      cvID,
		Type:      t,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func findComponent(cv *domain.Cv, componentID uuid.UUID) (*domain.CvComponent, error) {
	for _, c := range cv.Components {
		if c.ID == componentID {
			return c, nil
		}
	}
	return nil, fmt.Errorf("component %s: %w", componentID, domain.ErrNotFound)
}

// checkUnique enforces per-CV uniqueness rules. except is the component being
// updated, which never conflicts with itself.
func checkUnique(cv *domain.Cv, t domain.ComponentType, payload domain.DomainModel, except uuid.UUID) error {
	switch t {
	case domain.ComponentPersonalInfo:
		for _, c := range cv.ComponentsOfType(domain.ComponentPersonalInfo) {
			if c.ID != except {
				return fmt.Errorf("personal info: %w", domain.ErrConflict)
			}
		}
	case domain.ComponentSkill:
		skill := payload.(*domain.Skill)
		if existing := skillNames(cv, except); existing[strings.ToLower(skill.Name)] {
			return domain.NewValidationError("name",
				"You already have this skill. Consider updating the existing one instead.",
				domain.ErrDuplicate)
		}
	}
	return nil
}

// skillNames returns the lowercased names of the CV's skill components.
func skillNames(cv *domain.Cv, except uuid.UUID) map[string]bool {
	names := map[string]bool{}
	for _, c := range cv.ComponentsOfType(domain.ComponentSkill) {
		if c.ID == except {
			continue
		}
		payload, err := c.Decode()
		if err != nil {
			log.Warn().Err(err).Str("component_id", c.ID.String()).Msg("skipping unreadable skill component")
			continue
		}
		names[strings.ToLower(payload.(*domain.Skill).Name)] = true
	}
	return names
}
