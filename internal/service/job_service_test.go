package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/matching"
)

const backendPosting = `We are hiring a backend engineer.

Requirements:
- 3+ years of experience with Go and PostgreSQL
- Docker

Nice to have:
- Kubernetes`

type jobFixture struct {
	jobs         JobService
	analyses     AnalysisService
	cvs          CvService
	jobRepo      *fakeJobRepo
	analysisRepo *fakeAnalysisRepo
	analyzer     *stubAnalyzer
}

func newJobFixture(analyzer *stubAnalyzer) *jobFixture {
	cvRepo := newFakeCvRepo()
	jobRepo := newFakeJobRepo()
	analysisRepo := newFakeAnalysisRepo()
	cvs := NewCvService(cvRepo)

	var a domain.Analyzer
	if analyzer != nil {
		a = analyzer
	}
	engine := matching.NewEngine(matching.WithClock(func() time.Time {
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	analyses := NewAnalysisService(analysisRepo, jobRepo, cvs, engine, a, time.Second)
	return &jobFixture{
		jobs:         NewJobService(jobRepo, cvs, analyses),
		analyses:     analyses,
		cvs:          cvs,
		jobRepo:      jobRepo,
		analysisRepo: analysisRepo,
		analyzer:     analyzer,
	}
}

func (f *jobFixture) goCv(t *testing.T, userID uuid.UUID) *domain.Cv {
	t.Helper()
	cv := newTestCv(t, f.cvs, userID)
	addComponent(t, f.cvs, userID, cv.ID, "skill", `{"name":"Go"}`)
	addComponent(t, f.cvs, userID, cv.ID, "skill", `{"name":"PostgreSQL"}`)
	addComponent(t, f.cvs, userID, cv.ID, "experience",
		`{"employer":"Acme","title":"Backend Developer","start_date":"2020-01-01","end_date":"Present","description":"Built Go services"}`)
	return cv
}

func TestAnalyzeJobWithoutCv(t *testing.T) {
	f := newJobFixture(nil)
	userID := uuid.New()

	resp, err := f.jobs.AnalyzeJob(context.Background(), userID, &dto.AnalyzeJobRequest{
		Title:       "Backend Engineer",
		Description: backendPosting,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if resp.Analysis != nil {
		t.Fatalf("expected no analysis without a cv")
	}
	req := resp.Job.Requirements
	if req.MinExperienceYears != 3 {
		t.Fatalf("expected 3 years, got %d", req.MinExperienceYears)
	}
	if len(req.PreferredSkills) != 1 || req.PreferredSkills[0] != "kubernetes" {
		t.Fatalf("unexpected preferred skills %v", req.PreferredSkills)
	}
	if _, err := f.jobRepo.GetByID(context.Background(), resp.Job.ID); err != nil {
		t.Fatalf("expected job to be stored: %v", err)
	}
}

func TestAnalyzeJobWithCv(t *testing.T) {
	f := newJobFixture(nil)
	userID := uuid.New()
	cv := f.goCv(t, userID)

	resp, err := f.jobs.AnalyzeJob(context.Background(), userID, &dto.AnalyzeJobRequest{
		Title:       "Backend Engineer",
		Description: backendPosting,
		CvID:        &cv.ID,
		UseAI:       true,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	a := resp.Analysis
	if a == nil {
		t.Fatalf("expected an analysis")
	}
	if a.MatchScore != a.Result.MatchScore || a.ATSScore != a.Result.ATS.Score {
		t.Fatalf("denormalized scores disagree with result")
	}
	if a.MatchScore < 0 || a.MatchScore > 100 {
		t.Fatalf("score out of range: %d", a.MatchScore)
	}
	if a.AIInsights != nil {
		t.Fatalf("expected no insights without an analyzer")
	}
	found := false
	for _, s := range a.Result.MissingSkills {
		found = found || s == "docker"
	}
	if !found {
		t.Fatalf("expected docker to be missing, got %v", a.Result.MissingSkills)
	}
}

func TestAnalyzeJobForeignCvStoresNothing(t *testing.T) {
	f := newJobFixture(nil)
	cv := f.goCv(t, uuid.New())

	_, err := f.jobs.AnalyzeJob(context.Background(), uuid.New(), &dto.AnalyzeJobRequest{
		Title:       "Backend Engineer",
		Description: backendPosting,
		CvID:        &cv.ID,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(f.jobRepo.jobs) != 0 {
		t.Fatalf("expected no stored job")
	}
}

func TestAnalyzeJobValidation(t *testing.T) {
	f := newJobFixture(nil)
	_, err := f.jobs.AnalyzeJob(context.Background(), uuid.New(), &dto.AnalyzeJobRequest{
		Title:       "<b>Engineer</b>",
		Description: "too short",
	})
	list, ok := domain.AsValidationErrors(err)
	if !ok || len(list) != 2 {
		t.Fatalf("expected title and description errors, got %v", err)
	}
}

func TestJobOwnership(t *testing.T) {
	f := newJobFixture(nil)
	owner := uuid.New()
	ctx := context.Background()

	resp, err := f.jobs.AnalyzeJob(ctx, owner, &dto.AnalyzeJobRequest{Title: "Backend Engineer", Description: backendPosting})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := f.jobs.GetJob(ctx, uuid.New(), resp.Job.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.jobs.DeleteJob(ctx, owner, resp.Job.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.jobs.GetJob(ctx, owner, resp.Job.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListJobsNormalizesSkill(t *testing.T) {
	f := newJobFixture(nil)
	if _, err := f.jobs.ListJobs(context.Background(), uuid.New(), &dto.JobFilterRequest{Skill: " Golang "}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if f.jobRepo.lastSkill != "go" {
		t.Fatalf("expected normalized skill filter, got %q", f.jobRepo.lastSkill)
	}
}

func TestAnalyzeJobDiscardsPostingWhenAnalysisFails(t *testing.T) {
	f := newJobFixture(nil)
	userID := uuid.New()
	cv := f.goCv(t, userID)
	f.analysisRepo.failCreate = errors.New("connection reset")

	_, err := f.jobs.AnalyzeJob(context.Background(), userID, &dto.AnalyzeJobRequest{
		Title:       "Backend Engineer",
		Description: backendPosting,
		CvID:        &cv.ID,
	})
	if err == nil {
		t.Fatalf("expected analysis error")
	}
	if len(f.jobRepo.jobs) != 0 {
		t.Fatalf("expected the posting to be discarded, %d stored", len(f.jobRepo.jobs))
	}
}
