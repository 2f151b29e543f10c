package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/service"
)

type CvHandler struct {
	cvService service.CvService
}

func NewCvHandler(cvService service.CvService) *CvHandler {
	return &CvHandler{cvService: cvService}
}

// ListCvs handles GET /api/v1/cvs. Components are not loaded.
func (h *CvHandler) ListCvs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cvs, err := h.cvService.ListCvs(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cvs": cvs, "total": len(cvs)})
}

func (h *CvHandler) CreateCv(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CvRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cv, err := h.cvService.CreateCv(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cv": cv})
}

func (h *CvHandler) GetCv(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	cv, err := h.cvService.GetCv(c.Request.Context(), userID, cvID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cv": cv})
}

func (h *CvHandler) UpdateCv(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.CvRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cv, err := h.cvService.UpdateCv(c.Request.Context(), userID, cvID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cv": cv})
}

func (h *CvHandler) DeleteCv(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.cvService.DeleteCv(c.Request.Context(), userID, cvID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "CV deleted successfully"})
}

func (h *CvHandler) AddComponent(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.ComponentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	component, err := h.cvService.AddComponent(c.Request.Context(), userID, cvID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"component": component})
}

func (h *CvHandler) UpdateComponent(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	componentID, ok := uuidParam(c, "componentId")
	if !ok {
		return
	}

	var req dto.ComponentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	component, err := h.cvService.UpdateComponent(c.Request.Context(), userID, cvID, componentID, req.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"component": component})
}

func (h *CvHandler) DeleteComponent(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	componentID, ok := uuidParam(c, "componentId")
	if !ok {
		return
	}

	if err := h.cvService.DeleteComponent(c.Request.Context(), userID, cvID, componentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Component deleted successfully"})
}

func (h *CvHandler) ReorderComponents(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	cvID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	components, err := h.cvService.ReorderComponents(c.Request.Context(), userID, cvID, req.ComponentIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"components": components})
}
