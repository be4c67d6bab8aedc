package jwt

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateToken("ada@example.com", secret, 42, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ValidateAndGetClaims(token, secret)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims["email"] != "ada@example.com" {
		t.Fatalf("unexpected email claim: %v", claims["email"])
	}
	if id, ok := claims["id"].(float64); !ok || uint(id) != 42 {
		t.Fatalf("unexpected id claim: %v", claims["id"])
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := GenerateToken("ada@example.com", "right-secret", 42, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ValidateAndGetClaims(token, "wrong-secret"); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateToken("ada@example.com", "test-secret", 42, -time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ValidateAndGetClaims(token, "test-secret"); err == nil {
		t.Fatal("expected validation to fail for expired token")
	}
}

func TestGenerateTokenEmptySecret(t *testing.T) {
	if _, err := GenerateToken("ada@example.com", "", 42, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestGenerateTokenPair(t *testing.T) {
	access, refresh, err := GenerateTokenPair("ada@example.com", "test-secret", 42)
	if err != nil {
		t.Fatalf("generate token pair: %v", err)
	}
	if access == refresh {
		t.Fatal("expected distinct access and refresh tokens")
	}
}
