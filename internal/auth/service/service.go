// Package service implements admin authentication against the env-configured
// dashboard credential.
package service

import (
	"strings"
	"time"

	"evinstallers_backend/platform/apperr"
	"evinstallers_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentialsMsg = "invalid email or password"

// TokenPair is the login result. Only an access token is issued; the admin
// dashboard re-authenticates when it expires.
type TokenPair struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Service validates the admin credential and issues access tokens.
type Service struct {
	cfg config.AuthConfig
}

// New creates the auth service.
func New(cfg config.AuthConfig) *Service {
	return &Service{cfg: cfg}
}

// Login compares the submitted credential against the configured admin
// account. Both mismatched email and mismatched password report the same
// error.
func (s *Service) Login(email, password string) (TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	adminEmail := strings.ToLower(s.cfg.GetAdminEmail())
	adminHash := s.cfg.GetAdminPasswordHash()
	if adminEmail == "" || adminHash == "" {
		return TokenPair{}, apperr.Unauthorized(invalidCredentialsMsg)
	}

	if email != adminEmail {
		// Burn a comparison anyway so both failure paths cost the same.
		_ = bcrypt.CompareHashAndPassword([]byte(adminHash), []byte(password))
		return TokenPair{}, apperr.Unauthorized(invalidCredentialsMsg)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adminHash), []byte(password)); err != nil {
		return TokenPair{}, apperr.Unauthorized(invalidCredentialsMsg)
	}

	return s.issueToken(email)
}

func (s *Service) issueToken(email string) (TokenPair, error) {
	ttl := s.cfg.GetAccessTokenTTL()
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub":  email,
		"type": "access",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return TokenPair{}, apperr.Internal("failed to sign token")
	}

	return TokenPair{AccessToken: signed, ExpiresAt: expiresAt}, nil
}
