package auth

import (
	"testing"
	"time"

	"github.com/rlmonteiro/essencia-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "essencia",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	signed, err := MintAccessToken(cfg, now, "admin@example.com")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Email != "admin@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Role != AdminRole {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), "admin@example.com")
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected parse failure for wrong secret")
	}
}

func TestMintAccessTokenValidatesConfig(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, time.Now(), "admin@example.com"); err == nil {
		t.Fatal("expected error for missing secret")
	}

	cfg = testJWTConfig()
	if _, err := MintAccessToken(cfg, time.Now(), "  "); err == nil {
		t.Fatal("expected error for missing email")
	}
}
