package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/matching"
)

type JobService interface {
	// AnalyzeJob extracts requirements from the posting and stores it. With a
	// CV id the posting is also matched against that CV.
	AnalyzeJob(ctx context.Context, userID uuid.UUID, req *dto.AnalyzeJobRequest) (*dto.AnalyzeJobResponse, error)
	GetJob(ctx context.Context, userID, jobID uuid.UUID) (*domain.JobPosting, error)
	ListJobs(ctx context.Context, userID uuid.UUID, req *dto.JobFilterRequest) ([]*domain.JobPosting, error)
	DeleteJob(ctx context.Context, userID, jobID uuid.UUID) error
}

type jobService struct {
	jobRepo     domain.JobRepository
	cvService   CvService
	analysisSvc AnalysisService
}

func NewJobService(jobRepo domain.JobRepository, cvService CvService, analysisSvc AnalysisService) JobService {
	return &jobService{jobRepo: jobRepo, cvService: cvService, analysisSvc: analysisSvc}
}

func (j *jobService) AnalyzeJob(ctx context.Context, userID uuid.UUID, req *dto.AnalyzeJobRequest) (*dto.AnalyzeJobResponse, error) {
	job := req.ToJobPosting(userID)
	if err := job.Validate(); err != nil {
		return nil, err
	}
	job.BeforeSave()

	// resolve the CV first so a forbidden CV does not leave a stored posting behind
	var cv *domain.Cv
	if req.CvID != nil {
		var err error
		if cv, err = j.cvService.GetCv(ctx, userID, *req.CvID); err != nil {
			return nil, err
		}
	}

	job.Requirements = matching.ExtractRequirements(job.Title, job.Description)
	if err := j.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}
	log.Info().
		Str("job_id", job.ID.String()).
		Int("required_skills", len(job.Requirements.RequiredSkills)).
		Int("preferred_skills", len(job.Requirements.PreferredSkills)).
		Msg("job posting analysed")

	resp := &dto.AnalyzeJobResponse{Job: job}
	if cv != nil {
		analysis, err := j.analysisSvc.AnalyzeJob(ctx, cv, job, req.UseAI)
		if err != nil {
			j.discardJob(ctx, job.ID)
			return nil, err
		}
		resp.Analysis = analysis
	}
	return resp, nil
}

// discardJob removes a posting whose analysis failed.
func (j *jobService) discardJob(ctx context.Context, jobID uuid.UUID) {
	if err := j.jobRepo.Delete(context.WithoutCancel(ctx), jobID); err != nil {
		log.Warn().Err(err).Str("job_id", jobID.String()).Msg("failed to discard job posting")
	}
}

func (j *jobService) GetJob(ctx context.Context, userID, jobID uuid.UUID) (*domain.JobPosting, error) {
	return getOwnedJob(ctx, j.jobRepo, userID, jobID)
}

func (j *jobService) ListJobs(ctx context.Context, userID uuid.UUID, req *dto.JobFilterRequest) ([]*domain.JobPosting, error) {
	jobs, err := j.jobRepo.ListByUserID(ctx, userID, matching.Normalize(req.Skill), req.Offset, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return jobs, nil
}

func (j *jobService) DeleteJob(ctx context.Context, userID, jobID uuid.UUID) error {
	if _, err := getOwnedJob(ctx, j.jobRepo, userID, jobID); err != nil {
		return err
	}
	return j.jobRepo.Delete(ctx, jobID)
}

func getOwnedJob(ctx context.Context, repo domain.JobRepository, userID, jobID uuid.UUID) (*domain.JobPosting, error) {
	job, err := repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return job, nil
}
