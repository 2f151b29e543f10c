package dto

import (
	"github.com/google/uuid"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

type AnalyzeJobRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Company     string     `json:"company" binding:"max=255"`
	Location    string     `json:"location" binding:"max=255"`
	URL         string     `json:"url" binding:"omitempty,url,max=500"`
	Description string     `json:"description" binding:"required,max=20000"`
	CvID        *uuid.UUID `json:"cv_id,omitempty"`
	UseAI       bool       `json:"use_ai"`
}

func (req *AnalyzeJobRequest) ToJobPosting(userID uuid.UUID) *domain.JobPosting {
	return &domain.JobPosting{
		UserID:      userID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		URL:         req.URL,
		Description: req.Description,
	}
}

type AnalyzeJobResponse struct {
	Job      *domain.JobPosting          `json:"job"`
	Analysis *domain.ApplicationAnalysis `json:"analysis,omitempty"`
}

type JobFilterRequest struct {
	Skill  string `form:"skill"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type CreateAnalysisRequest struct {
	CvID  uuid.UUID `json:"cv_id" binding:"required"`
	JobID uuid.UUID `json:"job_id" binding:"required"`
	UseAI bool      `json:"use_ai"`
}
