package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

const (
	defaultJobLimit = 20
	maxJobLimit     = 100
)

type postgresJobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) domain.JobRepository {
	return &postgresJobRepository{db: db}
}

const jobColumns = `id, user_id, title, company, location, url, description, requirements, created_at, updated_at`

func (j *postgresJobRepository) Create(ctx context.Context, job *domain.JobPosting) error {
	requirements, err := json.Marshal(job.Requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}

	skills := append(append([]string{}, job.Requirements.RequiredSkills...), job.Requirements.PreferredSkills...)

	query := `INSERT INTO job_postings (` + jobColumns + `, skills)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = j.db.ExecContext(ctx, query,
		job.ID, job.UserID, job.Title, job.Company, job.Location, job.URL, job.Description,
		requirements, job.CreatedAt, job.UpdatedAt, pq.Array(skills))
	if err != nil {
		log.Error().Err(err).Str("user_id", job.UserID.String()).Msg("failed to insert job posting")
		return fmt.Errorf("insert job posting: %w", err)
	}
	return nil
}

func scanJob(s rowScanner) (*domain.JobPosting, error) {
	job := &domain.JobPosting{}
	var requirements []byte
	err := s.Scan(&job.ID, &job.UserID, &job.Title, &job.Company, &job.Location, &job.URL,
		&job.Description, &requirements, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(requirements) > 0 {
		if err := json.Unmarshal(requirements, &job.Requirements); err != nil {
			return nil, fmt.Errorf("decode requirements of job %s: %w", job.ID, err)
		}
	}
	return job, nil
}

func (j *postgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobPosting, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("job_id", id.String()).Msg("failed to query job posting")
		return nil, fmt.Errorf("query job posting: %w", err)
	}
	return job, nil
}

func (j *postgresJobRepository) ListByUserID(ctx context.Context, userID uuid.UUID, skill string, offset, limit int) ([]*domain.JobPosting, error) {
	if limit <= 0 || limit > maxJobLimit {
		limit = defaultJobLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + jobColumns + `
        FROM job_postings
        WHERE user_id = $1 AND ($2 = '' OR $2 = ANY(skills))
        ORDER BY created_at DESC
        LIMIT $3 OFFSET $4`

	rows, err := j.db.QueryContext(ctx, query, userID, skill, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query job postings: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.JobPosting, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return jobs, nil
}

func (j *postgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := j.db.ExecContext(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to delete job posting")
		return fmt.Errorf("delete job posting: %w", err)
	}
	return expectAffected(result)
}
