package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain/dto"
)

func (f *jobFixture) storedJob(t *testing.T, userID uuid.UUID) *domain.JobPosting {
	t.Helper()
	resp, err := f.jobs.AnalyzeJob(context.Background(), userID, &dto.AnalyzeJobRequest{
		Title: "Backend Engineer", Description: backendPosting,
	})
	if err != nil {
		t.Fatalf("analyze job: %v", err)
	}
	return resp.Job
}

func TestAnalyzeAddsInsights(t *testing.T) {
	analyzer := &stubAnalyzer{insights: &domain.Insights{Summary: "Good fit", Provider: "stub"}}
	f := newJobFixture(analyzer)
	userID := uuid.New()
	cv := f.goCv(t, userID)
	job := f.storedJob(t, userID)

	a, err := f.analyses.Analyze(context.Background(), userID, cv.ID, job.ID, true)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.AIInsights == nil || a.AIInsights.Summary != "Good fit" {
		t.Fatalf("expected insights, got %+v", a.AIInsights)
	}

	plain, err := f.analyses.Analyze(context.Background(), userID, cv.ID, job.ID, false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if plain.AIInsights != nil || analyzer.calls != 1 {
		t.Fatalf("analyzer must only run when requested")
	}
	if plain.MatchScore != a.MatchScore {
		t.Fatalf("insights must not change the score: %d vs %d", plain.MatchScore, a.MatchScore)
	}
}

func TestAnalyzeDegradesOnAIFailure(t *testing.T) {
	f := newJobFixture(&stubAnalyzer{err: errBoom})
	userID := uuid.New()
	cv := f.goCv(t, userID)
	job := f.storedJob(t, userID)

	a, err := f.analyses.Analyze(context.Background(), userID, cv.ID, job.ID, true)
	if err != nil {
		t.Fatalf("ai failure must not fail the analysis: %v", err)
	}
	if a.AIInsights != nil {
		t.Fatalf("expected no insights")
	}
	if _, err := f.analysisRepo.GetByID(context.Background(), a.ID); err != nil {
		t.Fatalf("expected analysis to be stored: %v", err)
	}
}

func TestAnalyzeOwnership(t *testing.T) {
	f := newJobFixture(nil)
	owner, stranger := uuid.New(), uuid.New()
	cv := f.goCv(t, owner)
	job := f.storedJob(t, owner)
	otherCv := f.goCv(t, stranger)
	ctx := context.Background()

	if _, err := f.analyses.Analyze(ctx, stranger, otherCv.ID, job.ID, false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign job, got %v", err)
	}
	if _, err := f.analyses.Analyze(ctx, owner, cv.ID, uuid.New(), false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown job, got %v", err)
	}

	a, err := f.analyses.Analyze(ctx, owner, cv.ID, job.ID, false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := f.analyses.GetAnalysis(ctx, stranger, a.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.analyses.DeleteAnalysis(ctx, stranger, a.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if err := f.analyses.DeleteAnalysis(ctx, owner, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestListAnalysesByCv(t *testing.T) {
	f := newJobFixture(nil)
	userID := uuid.New()
	cvA, cvB := f.goCv(t, userID), f.goCv(t, userID)
	job := f.storedJob(t, userID)
	ctx := context.Background()

	for _, cv := range []*domain.Cv{cvA, cvA, cvB} {
		if _, err := f.analyses.Analyze(ctx, userID, cv.ID, job.ID, false); err != nil {
			t.Fatalf("analyze: %v", err)
		}
	}

	all, err := f.analyses.ListAnalyses(ctx, userID, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("all = %d, %v", len(all), err)
	}
	onlyA, err := f.analyses.ListAnalyses(ctx, userID, &cvA.ID)
	if err != nil || len(onlyA) != 2 {
		t.Fatalf("cv A = %d, %v", len(onlyA), err)
	}
	if _, err := f.analyses.ListAnalyses(ctx, uuid.New(), &cvA.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
