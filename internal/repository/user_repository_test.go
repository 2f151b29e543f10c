package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var userRowColumns = []string{"id", "google_id", "email", "hashed_password", "first_name", "last_name", "picture", "created_at", "updated_at"}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{Email: "ada@example.com", HashedPassword: "hash", FirstName: "Ada"}
	user.BeforeSave()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, nil, "ada@example.com", "hash", "Ada", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: uniqueViolation, Message: "duplicate key value"})

	user := &domain.User{Email: "ada@example.com"}
	user.BeforeSave()
	if err := repo.Create(context.Background(), user); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(id.String(), nil, "ada@example.com", "hash", "Ada", "Lovelace", "", now, now))

	user, err := repo.GetByEmail(context.Background(), "  ADA@example.com ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.ID != id || user.GoogleID != "" || user.HashedPassword != "hash" || user.FullName() != "Ada Lovelace" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestUserRepositoryGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE google_id = $1")).
		WithArgs("g-1").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByGoogleID(context.Background(), "g-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepositoryUpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.User{ID: uuid.New()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepositoryLinkGoogleIDConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET google_id").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	if err := repo.LinkGoogleID(context.Background(), uuid.New(), "g-1"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
