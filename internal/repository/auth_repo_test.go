package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"sensornode/internal/repository"
)

func newUserRepoMock(t *testing.T) (*repository.UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
		_ = conn.Close()
	}
	return repository.NewUserRepository(conn), mock, cleanup
}

func TestUserRepository_Create_ReturnsID(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "h123").
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := repo.Create("alice", "h123")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 42 {
		t.Fatalf("Create() id = %d, want 42", id)
	}
}

func TestUserRepository_Create_WrapsExecError(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("bob", "h456").
		WillReturnError(errors.New("db exec failed"))

	id, err := repo.Create("bob", "h456")
	if err == nil {
		t.Fatal("Create() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "insert user") {
		t.Fatalf("Create() error = %q, want insert context", err)
	}
	if id != 0 {
		t.Fatalf("Create() id on error = %d, want 0", id)
	}
}

func TestUserRepository_GetByUsername_Found(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash"}).
			AddRow(7, "alice", "h123"))

	u, err := repo.GetByUsername("alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if u == nil || u.ID != 7 || u.Username != "alice" || u.PasswordHash != "h123" {
		t.Fatalf("GetByUsername() = %+v", u)
	}
}

func TestUserRepository_GetByUsername_MissingIsNilNil(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username")).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("GetByUsername() on missing user error = %v", err)
	}
	if u != nil {
		t.Fatalf("GetByUsername() on missing user = %+v, want nil", u)
	}
}

func TestUserRepository_GetByUsername_WrapsQueryError(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username")).
		WithArgs("bob").
		WillReturnError(errors.New("db query failed"))

	u, err := repo.GetByUsername("bob")
	if err == nil {
		t.Fatal("GetByUsername() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "select user") {
		t.Fatalf("GetByUsername() error = %q, want select context", err)
	}
	if u != nil {
		t.Fatalf("GetByUsername() on error = %+v, want nil", u)
	}
}
