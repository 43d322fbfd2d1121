package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundtrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret: %v", err)
	}

	tokenString, err := GenerateJWT(42, "user@example.com")

	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	token, err := VerifyJWT(tokenString)

	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		t.Fatal("claims are not MapClaims")
	}

	if userID, ok := claims["user_id"].(float64); !ok || uint(userID) != 42 {
		t.Errorf("user_id claim = %v, want 42", claims["user_id"])
	}

	if email, ok := claims["email"].(string); !ok || email != "user@example.com" {
		t.Errorf("email claim = %v, want user@example.com", claims["email"])
	}
}

func TestVerifyJWTRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret: %v", err)
	}

	tokenString, err := GenerateJWT(7, "user@example.com")

	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := VerifyJWT(tokenString + "x"); err == nil {
		t.Error("tampered token verified")
	}

	if _, err := VerifyJWT("not-a-token"); err == nil {
		t.Error("garbage token verified")
	}
}

func TestInitJWTSecretRequiresEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if err := InitJWTSecret(); err == nil {
		t.Error("InitJWTSecret accepted an empty secret")
	}
}
