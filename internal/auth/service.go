package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgauth "github.com/rlmonteiro/essencia-backend/pkg/auth"
	"github.com/rlmonteiro/essencia-backend/pkg/config"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
	"github.com/rlmonteiro/essencia-backend/pkg/security"
)

// Service authenticates the admin panel credential and mints access
// tokens for the admin API.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// LoginResult carries the minted token back to the controller.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
}

type service struct {
	jwt   config.JWTConfig
	admin config.AdminConfig
	logg  *logger.Logger
	now   func() time.Time
}

// NewService builds the admin auth service.
func NewService(jwt config.JWTConfig, admin config.AdminConfig, logg *logger.Logger) (Service, error) {
	if jwt.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	if admin.Email == "" || admin.PasswordHash == "" {
		return nil, fmt.Errorf("admin credential required")
	}
	return &service{
		jwt:   jwt,
		admin: admin,
		logg:  logg,
		now:   time.Now,
	}, nil
}

// Login checks the submitted credential against the configured admin
// and mints a bearer token. Wrong email and wrong password are
// indistinguishable to the caller.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	if !strings.EqualFold(email, s.admin.Email) {
		s.warnRejected(ctx, email)
		return nil, invalidCredential()
	}
	ok, err := security.VerifyPassword(password, s.admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		s.warnRejected(ctx, email)
		return nil, invalidCredential()
	}

	now := s.now().UTC()
	token, err := pkgauth.MintAccessToken(s.jwt, now, s.admin.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(time.Duration(s.jwt.ExpirationMinutes) * time.Minute),
		Email:       s.admin.Email,
	}, nil
}

func (s *service) warnRejected(ctx context.Context, email string) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithAdminEmail(ctx, email)
	s.logg.Warn(ctx, "auth.login.rejected")
}

func invalidCredential() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}
