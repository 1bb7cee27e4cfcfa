package auth

import (
	"testing"

	"glasstrade-backend/internal/config"
	"glasstrade-backend/internal/models"
)

func testJWTManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "glasstrade"
	return NewJWTManager(cfg)
}

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := testJWTManager("test-secret")

	user := &models.User{ID: 42, Email: "owner@example.com", Role: models.RoleAdmin}
	token, err := mgr.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user ID = %d, want 42", claims.UserID)
	}
	if claims.Email != "owner@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := testJWTManager("secret-a").GenerateToken(&models.User{ID: 1, Role: models.RoleStaff})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := testJWTManager("secret-b").ValidateToken(token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := testJWTManager("s").ValidateToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
