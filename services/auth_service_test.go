package services

import (
	"testing"

	"github.com/greenloophq/greenloop/db"
	"github.com/greenloophq/greenloop/models"
	"github.com/greenloophq/greenloop/services/jwt"
)

func newAuthFixture(t *testing.T) (*db.GormDB, AuthService) {
	t.Helper()
	gdb := newTestDB(t)
	authRepo := db.NewAuthRepo(gdb)
	return gdb, NewAuthService(authRepo, testConfig())
}

func TestEnsureUserIdempotent(t *testing.T) {
	gdb, svc := newAuthFixture(t)

	first, err := svc.EnsureUser("ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	second, err := svc.EnsureUser("ada@example.com", "Someone Else")
	if err != nil {
		t.Fatalf("ensure user again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same user, got ids %d and %d", first.ID, second.ID)
	}
	if second.Name != "Ada" {
		t.Fatalf("expected original name preserved, got %q", second.Name)
	}
	if n := countRows(t, gdb, &models.User{}, "email = ?", "ada@example.com"); n != 1 {
		t.Fatalf("expected one user row, got %d", n)
	}
}

func TestEnsureUserPlaceholderName(t *testing.T) {
	_, svc := newAuthFixture(t)
	user, err := svc.EnsureUser("anon@example.com", "")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	if user.Name != DefaultUserName {
		t.Fatalf("expected placeholder name %q, got %q", DefaultUserName, user.Name)
	}
}

func TestCreateSession(t *testing.T) {
	_, svc := newAuthFixture(t)

	session, apiErr := svc.CreateSession(&models.SessionRequest{Email: "ada@example.com", Name: "Ada"})
	if apiErr != nil {
		t.Fatalf("create session: %v", apiErr)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected both tokens in session response")
	}

	claims, err := jwt.ValidateAndGetClaims(session.AccessToken, testConfig().JWTSecret)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims["email"] != "ada@example.com" {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	gdb, svc := newAuthFixture(t)
	authRepo := db.NewAuthRepo(gdb)

	session, apiErr := svc.CreateSession(&models.SessionRequest{Email: "ada@example.com", Name: "Ada"})
	if apiErr != nil {
		t.Fatalf("create session: %v", apiErr)
	}
	if authRepo.IsTokenInBlacklist(session.AccessToken) {
		t.Fatal("fresh token must not be blacklisted")
	}
	if apiErr := svc.Logout(session.AccessToken); apiErr != nil {
		t.Fatalf("logout: %v", apiErr)
	}
	if !authRepo.IsTokenInBlacklist(session.AccessToken) {
		t.Fatal("expected token in blacklist after logout")
	}
}
