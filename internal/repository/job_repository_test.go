package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

var jobRowColumns = []string{"id", "user_id", "title", "company", "location", "url", "description", "requirements", "created_at", "updated_at"}

func TestJobRepositoryCreateStoresSkills(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)

	job := &domain.JobPosting{
		UserID:      uuid.New(),
		Title:       "Backend Engineer",
		Description: "Build services in Go.",
		Requirements: domain.JobRequirements{
			RequiredSkills:  []string{"go", "postgresql"},
			PreferredSkills: []string{"kubernetes"},
		},
	}
	job.BeforeSave()

	skills, err := pq.Array([]string{"go", "postgresql", "kubernetes"}).Value()
	if err != nil {
		t.Fatalf("array value: %v", err)
	}

	mock.ExpectExec("INSERT INTO job_postings").
		WithArgs(job.ID, job.UserID, "Backend Engineer", "", "", "", "Build services in Go.",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), skills).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestJobRepositoryGetByIDDecodesRequirements(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)

	id, userID := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery("FROM job_postings WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(jobRowColumns).AddRow(
			id.String(), userID.String(), "Backend Engineer", "Acme", "Oslo", "", "Go and SQL",
			[]byte(`{"required_skills":["go"],"preferred_skills":[],"keywords":["go"],"min_experience_years":3}`),
			now, now))

	job, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Company != "Acme" || job.Requirements.MinExperienceYears != 3 || len(job.Requirements.RequiredSkills) != 1 {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestJobRepositoryListClampsLimit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)

	userID := uuid.New()
	mock.ExpectQuery("FROM job_postings").
		WithArgs(userID, "go", defaultJobLimit, 0).
		WillReturnRows(sqlmock.NewRows(jobRowColumns))

	jobs, err := repo.ListByUserID(context.Background(), userID, "go", -5, 1000)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if jobs == nil || len(jobs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", jobs)
	}
}

func TestJobRepositoryDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJobRepository(db)

	mock.ExpectExec("DELETE FROM job_postings").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
