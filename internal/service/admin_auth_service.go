package service

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/SplendidSupplies/shop_api/internal/config"
	"github.com/SplendidSupplies/shop_api/internal/utils"
)

// AdminAuthService validates the single environment-configured admin
// account and issues session tokens. User management, registration and
// password rotation are out of scope for this service.
type AdminAuthService struct {
	admin config.AdminConfig
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(admin config.AdminConfig) *AdminAuthService {
	return &AdminAuthService{admin: admin}
}

// Login verifies the credentials and returns a signed admin token.
func (s *AdminAuthService) Login(email, password string) (string, error) {
	if email != s.admin.Email {
		log.Warn().Str("email", email).Msg("login attempt for unknown admin")
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("admin password verification failed")
		return "", errors.New("invalid credentials")
	}

	token, err := utils.GenerateJWT(email, "admin")
	if err != nil {
		return "", err
	}

	log.Info().Str("email", email).Msg("admin login successful")
	return token, nil
}
