package utils

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func init() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(42, "tokengen@test.com", "admin", nil)
	if err != nil {
		t.Fatalf("expected no error generating token, got: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token string")
	}

	// header.payload.signature
	if dots := strings.Count(token, "."); dots != 2 {
		t.Errorf("expected JWT with 2 dots, got %d dots", dots)
	}
}

func TestValidateToken(t *testing.T) {
	orgID := uint(7)

	token, err := GenerateToken(42, "validate@test.com", "org_admin", &orgID)
	if err != nil {
		t.Fatalf("expected no error generating token, got: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("expected no error validating token, got: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("expected user_id 42, got %d", claims.UserID)
	}
	if claims.Email != "validate@test.com" {
		t.Errorf("expected email validate@test.com, got %s", claims.Email)
	}
	if claims.Role != "org_admin" {
		t.Errorf("expected role org_admin, got %s", claims.Role)
	}
	if claims.OrganizationID == nil || *claims.OrganizationID != orgID {
		t.Errorf("expected organization_id %d, got %v", orgID, claims.OrganizationID)
	}
	if claims.Issuer != "orgmanager-backend" {
		t.Errorf("expected issuer 'orgmanager-backend', got %s", claims.Issuer)
	}
}

func TestRefreshTokenIssuer(t *testing.T) {
	token, err := GenerateRefreshToken(1, "refresh@test.com", "user", nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if claims.Issuer != "orgmanager-refresh" {
		t.Errorf("expected issuer 'orgmanager-refresh', got %s", claims.Issuer)
	}
	if claims.OrganizationID != nil {
		t.Errorf("expected nil organization_id, got %v", claims.OrganizationID)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	secret := os.Getenv("JWT_SECRET")

	claims := Claims{
		UserID: 9,
		Email:  "expired@test.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "orgmanager-backend",
		},
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, err := tokenObj.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateToken(expiredToken); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestTokenWithWrongSecretRejected(t *testing.T) {
	claims := Claims{
		UserID: 9,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateToken(forged); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}
