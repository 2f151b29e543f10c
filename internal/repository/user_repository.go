package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

const uniqueViolation = "23505"

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, google_id, email, hashed_password, first_name, last_name, picture, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		nullString(user.GoogleID),
		user.Email,
		nullString(user.HashedPassword),
		user.FirstName,
		user.LastName,
		user.Picture,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", user.Email, domain.ErrConflict)
	}
	if err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("failed to insert user")
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, domain.NormalizeEmail(email))
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	var googleID, hashedPassword sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&googleID,
		&user.Email,
		&hashedPassword,
		&user.FirstName,
		&user.LastName,
		&user.Picture,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("query user: %w", err)
	}

	user.GoogleID = googleID.String
	user.HashedPassword = hashedPassword.String
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
        UPDATE users
        SET first_name = $2, last_name = $3, picture = $4, updated_at = $5
        WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Picture, user.UpdatedAt)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to update user")
		return fmt.Errorf("update user: %w", err)
	}
	return expectAffected(res)
}

func (r *userRepository) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`, id, googleID)
	if isUniqueViolation(err) {
		return fmt.Errorf("google account: %w", domain.ErrConflict)
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", id.String()).Msg("failed to link google account")
		return fmt.Errorf("link google id: %w", err)
	}
	return expectAffected(res)
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{
		String: value,
		Valid:  true,
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// expectAffected maps an UPDATE or DELETE that touched no rows to ErrNotFound.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
