package service

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sensornode/internal/config"
	"sensornode/internal/models"
)

type fakeAuthRepo struct {
	users  map[string]*models.User
	nextID int
	err    error
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: map[string]*models.User{}, nextID: 1}
}

func (f *fakeAuthRepo) Create(username, hash string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	id := f.nextID
	f.nextID++
	f.users[username] = &models.User{ID: id, Username: username, PasswordHash: hash}
	return id, nil
}

func (f *fakeAuthRepo) GetByUsername(username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[username], nil
}

func testAuthService(repo *fakeAuthRepo) *AuthService {
	return NewAuthService(repo, config.AuthConfig{SigningKey: "test-key", TokenTTL: time.Hour})
}

func TestAuth_SignUpHashesPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := testAuthService(repo)

	id, err := svc.SignUp("mark", "hunter2")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if id != 1 {
		t.Fatalf("SignUp() id = %d", id)
	}
	u := repo.users["mark"]
	if u.PasswordHash == "hunter2" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestAuth_SignUpRejectsEmptyPassword(t *testing.T) {
	svc := testAuthService(newFakeAuthRepo())
	if _, err := svc.SignUp("mark", "   "); err == nil {
		t.Fatal("expected error for blank password")
	}
}

func TestAuth_TokenRoundTrip(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := testAuthService(repo)

	if _, err := svc.SignUp("mark", "hunter2"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	token, err := svc.GenerateToken("mark", "hunter2")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	uid, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if uid != 1 {
		t.Fatalf("ParseToken() uid = %d, want 1", uid)
	}
}

func TestAuth_GenerateToken_WrongPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := testAuthService(repo)
	_, _ = svc.SignUp("mark", "hunter2")

	if _, err := svc.GenerateToken("mark", "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("error = %v, want ErrInvalidPassword", err)
	}
}

func TestAuth_GenerateToken_UnknownUser(t *testing.T) {
	svc := testAuthService(newFakeAuthRepo())
	if _, err := svc.GenerateToken("nobody", "pw"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}

func TestAuth_ParseToken_DifferentKeyRejected(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := testAuthService(repo)
	_, _ = svc.SignUp("mark", "hunter2")
	token, _ := svc.GenerateToken("mark", "hunter2")

	other := NewAuthService(repo, config.AuthConfig{SigningKey: "other-key"})
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("token signed with a different key must be rejected")
	}
}
