package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/SplendidSupplies/shop_api/internal/config"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

func newAuthFixture(t *testing.T, password string) *AdminAuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return NewAdminAuthService(config.AdminConfig{
		Email:        "admin@splendidsupplies.shop",
		PasswordHash: string(hash),
	})
}

func TestLoginIssuesAdminToken(t *testing.T) {
	svc := newAuthFixture(t, "correct horse")

	token, err := svc.Login("admin@splendidsupplies.shop", "correct horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected admin role claim, got %q", claims.Role)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newAuthFixture(t, "correct horse")
	if _, err := svc.Login("admin@splendidsupplies.shop", "battery staple"); err == nil {
		t.Fatalf("wrong password must be rejected")
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newAuthFixture(t, "correct horse")
	if _, err := svc.Login("intruder@example.com", "correct horse"); err == nil {
		t.Fatalf("unknown email must be rejected")
	}
}
