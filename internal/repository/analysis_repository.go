package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

type analysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) domain.AnalysisRepository {
	return &analysisRepository{db: db}
}

const analysisColumns = `id, user_id, cv_id, job_id, match_score, ats_score, result, ai_insights, created_at`

func (r *analysisRepository) Create(ctx context.Context, a *domain.ApplicationAnalysis) error {
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("marshal match result: %w", err)
	}
	var insights any
	if a.AIInsights != nil {
		data, err := json.Marshal(a.AIInsights)
		if err != nil {
			return fmt.Errorf("marshal ai insights: %w", err)
		}
		insights = data
	}

	query := `INSERT INTO application_analyses (` + analysisColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.CvID, a.JobID, a.MatchScore, a.ATSScore, result, insights, a.CreatedAt)
	if err != nil {
		log.Error().Err(err).Str("cv_id", a.CvID.String()).Str("job_id", a.JobID.String()).Msg("failed to insert analysis")
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func scanAnalysis(s rowScanner) (*domain.ApplicationAnalysis, error) {
	a := &domain.ApplicationAnalysis{}
	var result, insights []byte
	err := s.Scan(&a.ID, &a.UserID, &a.CvID, &a.JobID, &a.MatchScore, &a.ATSScore, &result, &insights, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return nil, fmt.Errorf("decode result of analysis %s: %w", a.ID, err)
	}
	if len(insights) > 0 {
		a.AIInsights = &domain.Insights{}
		if err := json.Unmarshal(insights, a.AIInsights); err != nil {
			return nil, fmt.Errorf("decode insights of analysis %s: %w", a.ID, err)
		}
	}
	return a, nil
}

func (r *analysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ApplicationAnalysis, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM application_analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("analysis_id", id.String()).Msg("failed to query analysis")
		return nil, fmt.Errorf("query analysis: %w", err)
	}
	return a, nil
}

// ListByUserID returns the user's analyses, newest first, optionally limited to one CV.
func (r *analysisRepository) ListByUserID(ctx context.Context, userID uuid.UUID, cvID *uuid.UUID) ([]*domain.ApplicationAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM application_analyses WHERE user_id = $1`
	args := []any{userID}
	if cvID != nil {
		query += ` AND cv_id = $2`
		args = append(args, *cvID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	analyses := make([]*domain.ApplicationAnalysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return analyses, nil
}

func (r *analysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM application_analyses WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Str("analysis_id", id.String()).Msg("failed to delete analysis")
		return fmt.Errorf("delete analysis: %w", err)
	}
	return expectAffected(res)
}
