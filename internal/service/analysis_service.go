package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/matching"
)

type AnalysisService interface {
	// Analyze scores the CV against a stored job of the same user.
	Analyze(ctx context.Context, userID, cvID, jobID uuid.UUID, useAI bool) (*domain.ApplicationAnalysis, error)
	// AnalyzeJob scores an already loaded CV against job and stores the result.
	AnalyzeJob(ctx context.Context, cv *domain.Cv, job *domain.JobPosting, useAI bool) (*domain.ApplicationAnalysis, error)
	ListAnalyses(ctx context.Context, userID uuid.UUID, cvID *uuid.UUID) ([]*domain.ApplicationAnalysis, error)
	GetAnalysis(ctx context.Context, userID, analysisID uuid.UUID) (*domain.ApplicationAnalysis, error)
	DeleteAnalysis(ctx context.Context, userID, analysisID uuid.UUID) error
}

type analysisService struct {
	analysisRepo domain.AnalysisRepository
	jobRepo      domain.JobRepository
	cvService    CvService
	engine       *matching.Engine
	analyzer     domain.Analyzer
	aiTimeout    time.Duration
}

// NewAnalysisService builds the service. analyzer may be nil, in which case
// AI insights are never produced.
func NewAnalysisService(
	analysisRepo domain.AnalysisRepository,
	jobRepo domain.JobRepository,
	cvService CvService,
	engine *matching.Engine,
	analyzer domain.Analyzer,
	aiTimeout time.Duration,
) AnalysisService {
	return &analysisService{
		analysisRepo: analysisRepo,
		jobRepo:      jobRepo,
		cvService:    cvService,
		engine:       engine,
		analyzer:     analyzer,
		aiTimeout:    aiTimeout,
	}
}

func (s *analysisService) Analyze(ctx context.Context, userID, cvID, jobID uuid.UUID, useAI bool) (*domain.ApplicationAnalysis, error) {
	cv, err := s.cvService.GetCv(ctx, userID, cvID)
	if err != nil {
		return nil, err
	}
	job, err := getOwnedJob(ctx, s.jobRepo, userID, jobID)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeJob(ctx, cv, job, useAI)
}

func (s *analysisService) AnalyzeJob(ctx context.Context, cv *domain.Cv, job *domain.JobPosting, useAI bool) (*domain.ApplicationAnalysis, error) {
	doc, err := cv.Document()
	if err != nil {
		return nil, fmt.Errorf("assemble cv: %w", err)
	}

	result := s.engine.Match(doc, job.Requirements)
	analysis := &domain.ApplicationAnalysis{
		ID:         uuid.New(),
		UserID:     cv.UserID,
		CvID:       cv.ID,
		JobID:      job.ID,
		MatchScore: result.MatchScore,
		ATSScore:   result.ATS.Score,
		Result:     *result,
		CreatedAt:  time.Now(),
	}

	if useAI {
		analysis.AIInsights = s.insights(ctx, doc, job, result)
	}

	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	log.Info().
		Str("analysis_id", analysis.ID.String()).
		Str("cv_id", cv.ID.String()).
		Str("job_id", job.ID.String()).
		Int("match_score", analysis.MatchScore).
		Int("ats_score", analysis.ATSScore).
		Bool("ai", analysis.AIInsights != nil).
		Msg("application analysed")
	return analysis, nil
}

// insights asks the AI analyzer for a narrative. Failures are logged and the
// heuristic result is kept as is.
func (s *analysisService) insights(ctx context.Context, doc *domain.CvDocument, job *domain.JobPosting, result *domain.MatchResult) *domain.Insights {
	if s.analyzer == nil {
		log.Debug().Err(domain.ErrAIUnavailable).Msg("ai insights requested")
		return nil
	}

	if s.aiTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.aiTimeout)
		defer cancel()
	}

	insights, err := s.analyzer.Analyze(ctx, doc, job, result)
	if err != nil {
		log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("ai analysis failed, using heuristic result only")
		return nil
	}
	return insights
}

func (s *analysisService) ListAnalyses(ctx context.Context, userID uuid.UUID, cvID *uuid.UUID) ([]*domain.ApplicationAnalysis, error) {
	if cvID != nil {
		if _, err := s.cvService.GetCv(ctx, userID, *cvID); err != nil {
			return nil, err
		}
	}
	analyses, err := s.analysisRepo.ListByUserID(ctx, userID, cvID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, nil
}

func (s *analysisService) GetAnalysis(ctx context.Context, userID, analysisID uuid.UUID) (*domain.ApplicationAnalysis, error) {
	analysis, err := s.analysisRepo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	if analysis.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return analysis, nil
}

func (s *analysisService) DeleteAnalysis(ctx context.Context, userID, analysisID uuid.UUID) error {
	if _, err := s.GetAnalysis(ctx, userID, analysisID); err != nil {
		return err
	}
	return s.analysisRepo.Delete(ctx, analysisID)
}
