package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/service"
)

type AnalysisHandler struct {
	analysisService service.AnalysisService
}

func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	analysis, err := h.analysisService.Analyze(c.Request.Context(), userID, req.CvID, req.JobID, req.UseAI)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"analysis": analysis})
}

// ListAnalyses handles GET /api/v1/analyses, optionally filtered by ?cv_id=.
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var cvID *uuid.UUID
	if raw := c.Query("cv_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cv_id format", "code": "INVALID_ID"})
			return
		}
		cvID = &id
	}

	analyses, err := h.analysisService.ListAnalyses(c.Request.Context(), userID, cvID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses, "total": len(analyses)})
}

func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	analysisID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	analysis, err := h.analysisService.GetAnalysis(c.Request.Context(), userID, analysisID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	analysisID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.analysisService.DeleteAnalysis(c.Request.Context(), userID, analysisID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted successfully"})
}
