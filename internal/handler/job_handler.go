package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/service"
)

type JobHandler struct {
	jobService service.JobService
}

func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// AnalyzeJob handles POST /api/v1/jobs/analyze
func (h *JobHandler) AnalyzeJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.AnalyzeJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.jobService.AnalyzeJob(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.JobFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	jobs, err := h.jobService.ListJobs(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "total": len(jobs)})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), userID, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	jobID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), userID, jobID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
