package auth

import (
	"testing"
	"time"

	"github.com/AziCodder/api-coddy-crm/app/config"
)

func withTestConfig(t *testing.T, ttl time.Duration) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  ttl,
	}
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	withTestConfig(t, time.Hour)

	token, err := GenerateJWT(42, "alice", []string{"manager"})
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want alice", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "manager" {
		t.Errorf("Roles = %v, want [manager]", claims.Roles)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	withTestConfig(t, time.Hour)
	token, err := GenerateJWT(1, "bob", nil)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	config.AppConfig.JWTSecret = "other-secret"
	if _, err := ValidateJWT(token); err == nil {
		t.Error("token signed with a different secret validated")
	}
}

func TestJWTExpired(t *testing.T) {
	withTestConfig(t, -time.Minute)
	token, err := GenerateJWT(1, "bob", nil)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ValidateJWT(token); err == nil {
		t.Error("expired token validated")
	}
}
