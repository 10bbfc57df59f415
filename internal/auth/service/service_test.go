package service

import (
	"testing"
	"time"

	"evinstallers_backend/platform/apperr"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type fakeConfig struct {
	secret string
	ttl    time.Duration
	email  string
	hash   string
}

func (f *fakeConfig) GetJWTAccessSecret() string       { return f.secret }
func (f *fakeConfig) GetAccessTokenTTL() time.Duration { return f.ttl }
func (f *fakeConfig) GetAdminEmail() string            { return f.email }
func (f *fakeConfig) GetAdminPasswordHash() string     { return f.hash }

func newTestService(t *testing.T, password string) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return New(&fakeConfig{
		secret: "test-secret",
		ttl:    time.Hour,
		email:  "admin@example.com",
		hash:   string(hash),
	})
}

func TestLoginIssuesAccessToken(t *testing.T) {
	svc := newTestService(t, "correct horse battery")

	tokens, err := svc.Login("Admin@Example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Fatal("empty access token")
	}

	parsed, err := jwt.Parse(tokens.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "admin@example.com" {
		t.Fatalf("unexpected subject: %v", claims["sub"])
	}
	if claims["type"] != "access" {
		t.Fatalf("unexpected token type: %v", claims["type"])
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t, "correct horse battery")

	_, err := svc.Login("admin@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("got kind %v, want unauthorized", apperr.GetKind(err))
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(t, "correct horse battery")

	_, err := svc.Login("intruder@example.com", "correct horse battery")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoginRejectsWhenNotConfigured(t *testing.T) {
	svc := New(&fakeConfig{secret: "s"})

	_, err := svc.Login("admin@example.com", "anything")
	if err == nil {
		t.Fatal("expected error when no admin credential configured")
	}
}
