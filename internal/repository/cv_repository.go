package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

type cvRepository struct {
	db *sql.DB
}

func NewCvRepository(db *sql.DB) domain.CvRepository {
	return &cvRepository{db: db}
}

func (r *cvRepository) Create(ctx context.Context, cv *domain.Cv) error {
	query := `
	INSERT INTO cvs (id, user_id, title, summary, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, cv.ID, cv.UserID, cv.Title, cv.Summary, cv.CreatedAt, cv.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("user_id", cv.UserID.String()).Msg("failed to insert cv")
		return fmt.Errorf("insert cv: %w", err)
	}
	return nil
}

// GetByID returns the CV with its components ordered by position.
func (r *cvRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cv, error) {
	cv := &domain.Cv{}
	query := `
	SELECT id, user_id, title, summary, created_at, updated_at
	FROM cvs WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cv.ID, &cv.UserID, &cv.Title, &cv.Summary, &cv.CreatedAt, &cv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("cv_id", id.String()).Msg("failed to query cv")
		return nil, fmt.Errorf("query cv: %w", err)
	}

	components, err := r.ListComponents(ctx, id)
	if err != nil {
		return nil, err
	}
	cv.Components = components
	return cv, nil
}

func (r *cvRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Cv, error) {
	query := `
	SELECT id, user_id, title, summary, created_at, updated_at
	FROM cvs
	WHERE user_id = $1
	ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cvs: %w", err)
	}
	defer rows.Close()

	cvs := make([]*domain.Cv, 0)
	for rows.Next() {
		cv := &domain.Cv{}
		if err := rows.Scan(&cv.ID, &cv.UserID, &cv.Title, &cv.Summary, &cv.CreatedAt, &cv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cv: %w", err)
		}
		cvs = append(cvs, cv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return cvs, nil
}

func (r *cvRepository) Update(ctx context.Context, cv *domain.Cv) error {
	query := `
	UPDATE cvs SET title = $2, summary = $3, updated_at = $4
	WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, cv.ID, cv.Title, cv.Summary, cv.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("cv_id", cv.ID.String()).Msg("failed to update cv")
		return fmt.Errorf("update cv: %w", err)
	}
	return expectAffected(res)
}

// Delete removes the CV; components and analyses cascade.
func (r *cvRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cvs WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Str("cv_id", id.String()).Msg("failed to delete cv")
		return fmt.Errorf("delete cv: %w", err)
	}
	return expectAffected(res)
}

const insertComponent = `
	INSERT INTO cv_components (id, cv_id, type, position, data, created_at, updated_at)
	VALUES ($1, $2, $3,
		(SELECT COALESCE(MAX(position) + 1, 0) FROM cv_components WHERE cv_id = $2),
		$4, $5, $6)
	RETURNING position`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func addComponent(ctx context.Context, q queryRower, c *domain.CvComponent) error {
	return q.QueryRowContext(ctx, insertComponent,
		c.ID, c.CvID, c.Type, []byte(c.Data), c.CreatedAt, c.UpdatedAt,
	).Scan(&c.Position)
}

// AddComponent appends the component after the CV's last position.
func (r *cvRepository) AddComponent(ctx context.Context, component *domain.CvComponent) error {
	if err := addComponent(ctx, r.db, component); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s component: %w", component.Type, domain.ErrConflict)
		}
		log.Error().Err(err).Str("cv_id", component.CvID.String()).Msg("failed to insert cv component")
		return fmt.Errorf("insert cv component: %w", err)
	}
	return nil
}

// AddComponents appends all components atomically.
func (r *cvRepository) AddComponents(ctx context.Context, components []*domain.CvComponent) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, c := range components {
			if err := addComponent(ctx, tx, c); err != nil {
				return fmt.Errorf("insert cv component %s: %w", c.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Int("count", len(components)).Msg("failed to insert cv components")
	}
	return err
}

const componentColumns = `id, cv_id, type, position, data, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(s rowScanner) (*domain.CvComponent, error) {
	c := &domain.CvComponent{}
	var data []byte
	if err := s.Scan(&c.ID, &c.CvID, &c.Type, &c.Position, &data, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Data = data
	return c, nil
}

func (r *cvRepository) ListComponents(ctx context.Context, cvID uuid.UUID) ([]*domain.CvComponent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+componentColumns+` FROM cv_components WHERE cv_id = $1 ORDER BY position, created_at`, cvID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cv components: %w", err)
	}
	defer rows.Close()

	components := make([]*domain.CvComponent, 0)
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cv component: %w", err)
		}
		components = append(components, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return components, nil
}

func (r *cvRepository) UpdateComponent(ctx context.Context, component *domain.CvComponent) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cv_components SET data = $2, updated_at = $3 WHERE id = $1`,
		component.ID, []byte(component.Data), component.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("component_id", component.ID.String()).Msg("failed to update cv component")
		return fmt.Errorf("update cv component: %w", err)
	}
	return expectAffected(res)
}

func (r *cvRepository) DeleteComponent(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cv_components WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Str("component_id", id.String()).Msg("failed to delete cv component")
		return fmt.Errorf("delete cv component: %w", err)
	}
	return expectAffected(res)
}

// ReorderComponents assigns positions 0..n-1 in the given order. Every id must
// belong to the CV or nothing changes.
func (r *cvRepository) ReorderComponents(ctx context.Context, cvID uuid.UUID, orderedIDs []uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for position, id := range orderedIDs {
			res, err := tx.ExecContext(ctx,
				`UPDATE cv_components SET position = $1, updated_at = NOW() WHERE id = $2 AND cv_id = $3`,
				position, id, cvID)
			if err != nil {
				return fmt.Errorf("reorder cv component %s: %w", id, err)
			}
			if err := expectAffected(res); err != nil {
				return fmt.Errorf("component %s: %w", id, err)
			}
		}
		return nil
	})
}
