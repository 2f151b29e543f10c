package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &sessionRepository{client: client}
}

func sessionKey(id string) string             { return fmt.Sprintf("session:%s", id) }
func refreshTokenKey(token string) string     { return fmt.Sprintf("refresh_token:%s", token) }
func userSessionsKey(userID uuid.UUID) string { return fmt.Sprintf("user_sessions:%s", userID) }
func tempAuthKey(code string) string          { return fmt.Sprintf("temp_auth:%s", code) }

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s: %w", session.ID, domain.ErrSessionExpired)
	}

	sessionData, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), sessionData, ttl)
	pipe.Set(ctx, refreshTokenKey(session.RefreshToken), session.ID, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	// the set lives as long as the newest session
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)

	if _, err = pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("session_id", session.ID).Msg("failed to store session")
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	sessionID, err := r.client.Get(ctx, refreshTokenKey(refreshToken)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return r.GetByID(ctx, sessionID)
}

func (r *sessionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	sessionIDs, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(sessionIDs))
	var stale []any
	for _, sessionID := range sessionIDs {
		session, err := r.GetByID(ctx, sessionID)
		if errors.Is(err, domain.ErrNotFound) {
			stale = append(stale, sessionID)
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if len(stale) > 0 {
		if err := r.client.SRem(ctx, userSessionsKey(userID), stale...).Err(); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to prune expired sessions")
		}
	}
	return sessions, nil
}

func (r *sessionRepository) update(ctx context.Context, session *domain.Session) error {
	sessionData, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.ID), sessionData, time.Until(session.ExpiresAt)).Err()
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.Del(ctx, refreshTokenKey(session.RefreshToken))
	pipe.SRem(ctx, userSessionsKey(session.UserID), sessionID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	sessions, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	for _, session := range sessions {
		pipe.Del(ctx, sessionKey(session.ID))
		pipe.Del(ctx, refreshTokenKey(session.RefreshToken))
	}
	pipe.Del(ctx, userSessionsKey(userID))

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) UpdateLastUsed(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	session.LastUsedAt = time.Now()
	return r.update(ctx, session)
}

func (r *sessionRepository) StoreTemporaryAuth(ctx context.Context, authCode, authData string, expiration time.Duration) error {
	return r.client.Set(ctx, tempAuthKey(authCode), authData, expiration).Err()
}

// GetTemporaryAuth returns the stored data and deletes it; codes are single use.
func (r *sessionRepository) GetTemporaryAuth(ctx context.Context, authCode string) (string, error) {
	result, err := r.client.GetDel(ctx, tempAuthKey(authCode)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get temporary auth: %w", err)
	}
	return result, nil
}
