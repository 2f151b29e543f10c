package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/service"
)

type SkillHandler struct {
	skillService service.SkillService
}

func NewSkillHandler(skillService service.SkillService) *SkillHandler {
	return &SkillHandler{
		skillService: skillService,
	}
}

// CreateSkill handles POST /api/v1/cvs/:id/skills
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.SkillCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	skill, err := h.skillService.CreateSkill(c.Request.Context(), userID, cvID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"skill": skill})
}

// GetCvSkills handles GET /api/v1/cvs/:id/skills with an optional category filter.
func (h *SkillHandler) GetCvSkills(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	category := c.Query("category")
	skills, err := h.skillService.GetCvSkills(c.Request.Context(), userID, cvID, category)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SkillsListResponse{
		Skills: skills,
		Total:  len(skills),
		Filter: dto.FilterInfo{Category: category},
	})
}

// CreateSkillsBatch handles POST /api/v1/cvs/:id/skills/batch. Nothing is
// stored unless every skill passes validation.
func (h *SkillHandler) CreateSkillsBatch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	skills, err := h.skillService.CreateSkillsBatch(c.Request.Context(), userID, cvID, req.Skills)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"skills":  skills,
		"total":   len(skills),
		"message": "Skills created successfully",
	})
}

func (h *SkillHandler) GetSkillCategories(c *gin.Context) {
	categories := h.skillService.GetSkillCategories()
	c.JSON(http.StatusOK, dto.CategoriesResponse{
		Categories: categories,
		Total:      len(categories),
	})
}
