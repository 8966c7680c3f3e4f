package services

import (
	"strings"
	"testing"
	"time"

	"marketplace-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

func newTestAuthService() *AuthService {
	return NewAuthService("test-secret", zerolog.Nop())
}

func TestHashAndCheckPassword(t *testing.T) {
	auth := newTestAuthService()

	hash, err := auth.HashPassword("pw123456")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "pw123456" {
		t.Fatal("hash must not equal the plain password")
	}
	if !auth.CheckPassword("pw123456", hash) {
		t.Error("expected correct password to verify")
	}
	if auth.CheckPassword("wrong-password", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	auth := newTestAuthService()

	first, err := auth.HashPassword("pw123456")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := auth.HashPassword("pw123456")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Error("same password must produce different hashes across calls")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newTestAuthService()
	user := &models.User{
		ID:    42,
		Name:  "Ann",
		Email: "ann@example.com",
		Role:  string(models.RoleCustomer),
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Name != "Ann" || claims.Email != "ann@example.com" || claims.Role != "customer" {
		t.Errorf("claims do not match issued identity: %+v", claims)
	}

	wantExpiry := time.Now().Add(7 * 24 * time.Hour)
	if got := claims.ExpiresAt.Time; got.Before(wantExpiry.Add(-time.Minute)) || got.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expected expiry about 7 days out, got %v", got)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	auth := newTestAuthService()

	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}

	if _, err := auth.ValidateToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	auth := newTestAuthService()

	other := NewAuthService("another-secret", zerolog.Nop())
	token, err := other.GenerateToken(&models.User{ID: 1, Role: string(models.RoleCustomer)})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := auth.ValidateToken(token); err == nil {
		t.Error("expected token signed with a different key to be rejected")
	}
}

func TestValidateTokenTampered(t *testing.T) {
	auth := newTestAuthService()

	token, err := auth.GenerateToken(&models.User{ID: 7, Role: string(models.RoleCustomer)})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + ".eyJ1c2VyX2lkIjo5OTl9." + parts[2]

	if _, err := auth.ValidateToken(tampered); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestValidateTokenMalformed(t *testing.T) {
	auth := newTestAuthService()
	if _, err := auth.ValidateToken("not-a-token"); err == nil {
		t.Error("expected malformed token to be rejected")
	}
}
