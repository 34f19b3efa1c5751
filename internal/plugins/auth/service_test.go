package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/inkops/inkwell/internal/apperror"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn          func(ctx context.Context, user *User) error
	findByEmailFn     func(ctx context.Context, email string) (*User, error)
	emailExistsFn     func(ctx context.Context, email string) (bool, error)
	updateLastLoginFn func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

// --- Test Helpers ---

// newTestService spins up an in-memory Redis and returns a service wired to it.
func newTestService(t *testing.T, repo UserRepository) AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewAuthService(repo, rdb, time.Hour)
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func testUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return &User{
		ID:           "user-1",
		Email:        "admin@example.com",
		DisplayName:  "Admin",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
}

// --- EnsureAdmin Tests ---

func TestEnsureAdmin_CreatesWhenMissing(t *testing.T) {
	var created *User
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *User) error {
			created = user
			return nil
		},
	}

	svc := newTestService(t, repo)
	if err := svc.EnsureAdmin(context.Background(), "Admin@Example.com", "correct-horse-battery", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected admin account to be created")
	}
	if created.Email != "admin@example.com" {
		t.Errorf("expected lowercased email, got %s", created.Email)
	}
	if created.DisplayName != "Admin" {
		t.Errorf("expected default display name, got %s", created.DisplayName)
	}
	if !verifyPassword("correct-horse-battery", created.PasswordHash) {
		t.Error("stored hash does not verify against the password")
	}
}

func TestEnsureAdmin_NoopWhenPresent(t *testing.T) {
	createCalled := false
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
		createFn: func(ctx context.Context, user *User) error {
			createCalled = true
			return nil
		},
	}

	svc := newTestService(t, repo)
	if err := svc.EnsureAdmin(context.Background(), "admin@example.com", "pw", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if createCalled {
		t.Error("no account should be created when one already exists")
	}
}

func TestEnsureAdmin_NoopWithoutCredentials(t *testing.T) {
	svc := newTestService(t, &mockUserRepo{})
	if err := svc.EnsureAdmin(context.Background(), "", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	user := testUser(t, "secret-passphrase")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc := newTestService(t, repo)
	token, got, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Admin@Example.com",
		Password: "secret-passphrase",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}

	// The token must resolve to a live session.
	session, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("validating fresh session: %v", err)
	}
	if session.UserID != user.ID {
		t.Errorf("expected session for %s, got %s", user.ID, session.UserID)
	}
	if session.Email != user.Email {
		t.Errorf("expected session email %s, got %s", user.Email, session.Email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	user := testUser(t, "secret-passphrase")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc := newTestService(t, repo)
	_, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong",
	})
	assertAppError(t, err, 401)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc := newTestService(t, &mockUserRepo{})
	_, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	// Unknown email must be indistinguishable from a wrong password.
	assertAppError(t, err, 401)
}

// --- Session Tests ---

func TestValidateSession_UnknownToken(t *testing.T) {
	svc := newTestService(t, &mockUserRepo{})
	_, err := svc.ValidateSession(context.Background(), "no-such-token")
	assertAppError(t, err, 401)
}

func TestDestroySession_InvalidatesToken(t *testing.T) {
	user := testUser(t, "secret-passphrase")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc := newTestService(t, repo)
	token, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "secret-passphrase",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DestroySession(context.Background(), token); err != nil {
		t.Fatalf("destroying session: %v", err)
	}
	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401)
}

func TestSessionExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	user := testUser(t, "secret-passphrase")
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}

	svc := NewAuthService(repo, rdb, time.Minute)
	token, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "secret-passphrase",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401)
}

// --- Password Hashing Tests ---

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := hashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verifyPassword("hunter2hunter2", hash) {
		t.Error("correct password should verify")
	}
	if verifyPassword("hunter2hunter3", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if verifyPassword("pw", "not-a-phc-string") {
		t.Error("malformed hash must never verify")
	}
	if verifyPassword("pw", "$argon2id$v=19$garbage$x$y") {
		t.Error("unparseable parameters must never verify")
	}
}
