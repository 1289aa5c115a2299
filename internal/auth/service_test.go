package auth

import (
	"context"
	"testing"

	pkgauth "github.com/rlmonteiro/essencia-backend/pkg/auth"
	"github.com/rlmonteiro/essencia-backend/pkg/config"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/security"
)

func newTestService(t *testing.T) (Service, config.JWTConfig) {
	t.Helper()

	hash, err := security.HashPassword("s3nha-forte", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	jwt := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "essencia",
		ExpirationMinutes: 60,
	}
	svc, err := NewService(jwt, config.AdminConfig{
		Email:        "admin@essencia.com.br",
		PasswordHash: hash,
	}, nil)
	if err != nil {
		t.Fatalf("building auth service: %v", err)
	}
	return svc, jwt
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	svc, jwt := newTestService(t)
	result, err := svc.Login(context.Background(), "Admin@Essencia.com.br", "s3nha-forte")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TokenType != "Bearer" {
		t.Fatalf("expected bearer token, got %q", result.TokenType)
	}

	claims, err := pkgauth.ParseAccessToken(jwt, result.AccessToken)
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}
	if claims.Email != "admin@essencia.com.br" {
		t.Fatalf("expected admin email claim, got %q", claims.Email)
	}
	if claims.Role != pkgauth.AdminRole {
		t.Fatalf("expected admin role, got %q", claims.Role)
	}
}

func TestLoginRejections(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong email", email: "intruder@example.com", password: "s3nha-forte"},
		{name: "wrong password", email: "admin@essencia.com.br", password: "chute"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Login(context.Background(), tc.email, tc.password)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			// both rejections read the same to the caller
			if appErr.Message() != "invalid email or password" {
				t.Fatalf("unexpected message %q", appErr.Message())
			}
		})
	}
}

func TestLoginRequiresFields(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Login(context.Background(), "", "")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
