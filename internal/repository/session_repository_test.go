package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

func newSessionRepo(t *testing.T) (*miniredis.Miniredis, domain.SessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewSessionRepository(client)
}

func newSession(userID uuid.UUID) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    now.Add(time.Hour),
		CreatedAt:    now,
		LastUsedAt:   now,
		UserAgent:    "test",
		IPAddress:    "127.0.0.1",
	}
}

func TestSessionRepositoryLifecycle(t *testing.T) {
	mr, repo := newSessionRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	s1, s2 := newSession(userID), newSession(userID)
	for _, s := range []*domain.Session{s1, s2} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.GetByRefreshToken(ctx, s1.RefreshToken)
	if err != nil || got.ID != s1.ID {
		t.Fatalf("GetByRefreshToken = %+v, %v", got, err)
	}
	if ttl := mr.TTL("session:" + s1.ID); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected session ttl %s", ttl)
	}

	sessions, err := repo.GetByUserID(ctx, userID)
	if err != nil || len(sessions) != 2 {
		t.Fatalf("GetByUserID = %d sessions, %v", len(sessions), err)
	}

	if err := repo.Delete(ctx, s1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, s1.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.GetByRefreshToken(ctx, s1.RefreshToken); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected refresh token to be removed, got %v", err)
	}
	// deleting twice is not an error
	if err := repo.Delete(ctx, s1.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	if err := repo.DeleteByUserID(ctx, userID); err != nil {
		t.Fatalf("delete by user: %v", err)
	}
	if mr.Exists("session:"+s2.ID) || mr.Exists("user_sessions:"+userID.String()) {
		t.Fatalf("expected all user keys to be removed")
	}
}

func TestSessionRepositoryPrunesExpired(t *testing.T) {
	mr, repo := newSessionRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	s := newSession(userID)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	mr.Del("session:" + s.ID)

	sessions, err := repo.GetByUserID(ctx, userID)
	if err != nil || len(sessions) != 0 {
		t.Fatalf("expected no live sessions, got %d / %v", len(sessions), err)
	}
	if members, _ := mr.Members("user_sessions:" + userID.String()); len(members) != 0 {
		t.Fatalf("expected stale id to be pruned, got %v", members)
	}
}

func TestSessionRepositoryRejectsExpired(t *testing.T) {
	_, repo := newSessionRepo(t)
	s := newSession(uuid.New())
	s.ExpiresAt = time.Now().Add(-time.Minute)

	if err := repo.Create(context.Background(), s); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestSessionRepositoryUpdateLastUsed(t *testing.T) {
	_, repo := newSessionRepo(t)
	ctx := context.Background()

	s := newSession(uuid.New())
	s.LastUsedAt = time.Now().Add(-time.Hour)
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdateLastUsed(ctx, s.ID); err != nil {
		t.Fatalf("update last used: %v", err)
	}
	got, err := repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if time.Since(got.LastUsedAt) > time.Minute {
		t.Fatalf("expected last used to be refreshed, got %s", got.LastUsedAt)
	}
	if err := repo.UpdateLastUsed(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTemporaryAuthIsSingleUse(t *testing.T) {
	_, repo := newSessionRepo(t)
	ctx := context.Background()

	if err := repo.StoreTemporaryAuth(ctx, "code", `{"user":{}}`, time.Minute); err != nil {
		t.Fatalf("store: %v", err)
	}
	data, err := repo.GetTemporaryAuth(ctx, "code")
	if err != nil || data != `{"user":{}}` {
		t.Fatalf("first read = %q, %v", data, err)
	}
	if _, err := repo.GetTemporaryAuth(ctx, "code"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected code to be consumed, got %v", err)
	}
}
