package app

import (
	"errors"
	"testing"
	"time"

	"filesight/internal/pkg/jwtutil"
)

const testSecret = "test-secret"

func newAuthService() (*AuthService, *fakeUserStore) {
	users := newFakeUserStore()
	return NewAuthService(users, testSecret, time.Hour), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()

	registered, err := svc.Register(RegisterInput{
		Email:    "Alice@Example.com",
		Password: "secret123",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if registered.User.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", registered.User.Email)
	}
	if registered.User.PasswordHash == "secret123" {
		t.Errorf("password stored in clear")
	}

	claims, err := jwtutil.ParseToken(testSecret, registered.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != registered.User.ID || claims.Email != "alice@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	loggedIn, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Errorf("login returned a different user")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(RegisterInput{Email: "bob@example.com", Password: "12345"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()

	if _, err := svc.Register(RegisterInput{Email: "bob@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(RegisterInput{Email: "BOB@example.com", Password: "other-password"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestLoginDoesNotLeakUserExistence(t *testing.T) {
	svc, _ := newAuthService()

	if _, err := svc.Register(RegisterInput{Email: "bob@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPassword := svc.Login(LoginInput{Email: "bob@example.com", Password: "wrong-password"})
	_, unknownUser := svc.Login(LoginInput{Email: "nobody@example.com", Password: "whatever1"})

	if !errors.Is(wrongPassword, ErrInvalidCredential) {
		t.Errorf("wrong password: expected ErrInvalidCredential, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, ErrInvalidCredential) {
		t.Errorf("unknown user: expected ErrInvalidCredential, got %v", unknownUser)
	}
}
