package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	signed, tokenID, err := GenerateAccessToken(42, "johnd")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	if tokenID == "" {
		t.Fatal("expected a non-empty jti")
	}

	claims, err := ParseAccessToken(signed)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "johnd" {
		t.Errorf("Username = %q, want johnd", claims.Username)
	}
	if claims.ID != tokenID {
		t.Errorf("jti = %q, want %q", claims.ID, tokenID)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	signed, tokenID, err := GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}

	claims, err := ParseRefreshToken(signed)
	if err != nil {
		t.Fatalf("ParseRefreshToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.ID != tokenID {
		t.Errorf("jti = %q, want %q", claims.ID, tokenID)
	}
	if claims.Type != "refresh" {
		t.Errorf("Type = %q, want refresh", claims.Type)
	}
}

func TestEachTokenGetsAUniqueID(t *testing.T) {
	_, first, err := GenerateAccessToken(1, "a")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	_, second, err := GenerateAccessToken(1, "a")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	if first == second {
		t.Error("two tokens for the same user must carry distinct jti")
	}
}

// An access token must not be accepted where a refresh token is expected:
// it lacks the refresh type claim.
func TestParseRefreshRejectsAccessToken(t *testing.T) {
	signed, _, err := GenerateAccessToken(42, "johnd")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	if _, err := ParseRefreshToken(signed); err == nil {
		t.Error("expected access token to be rejected as refresh token")
	}
}

func TestParseAccessRejectsGarbage(t *testing.T) {
	if _, err := ParseAccessToken("not.a.token"); err == nil {
		t.Error("expected an error for a malformed token")
	}
}

func TestParseAccessRejectsTamperedToken(t *testing.T) {
	signed, _, err := GenerateAccessToken(42, "johnd")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	tampered := signed[:len(signed)-2] + "xx"
	if _, err := ParseAccessToken(tampered); err == nil {
		t.Error("expected an error for a tampered signature")
	}
}

func TestGetTokenExpirationDuration(t *testing.T) {
	signed, _, err := GenerateAccessToken(42, "johnd")
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	claims, err := ParseAccessToken(signed)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}

	remaining := GetTokenExpirationDuration(claims)
	if remaining <= 0 || remaining > AccessTokenLifetime {
		t.Errorf("remaining lifetime %v out of range (0, %v]", remaining, AccessTokenLifetime)
	}
}

// Redis treats a zero TTL as "no expiry": an already-expired token must
// still blacklist with a positive floor, never forever.
func TestGetTokenExpirationDurationExpiredTokenHasPositiveFloor(t *testing.T) {
	claims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	got := GetTokenExpirationDuration(claims)
	if got <= 0 {
		t.Fatalf("expired token must yield a positive TTL, got %v", got)
	}
	if got > AccessTokenLifetime {
		t.Errorf("floor TTL must stay small, got %v", got)
	}
}

func TestGetTokenExpirationDurationWithoutExpiry(t *testing.T) {
	claims := &AccessClaims{}
	if got := GetTokenExpirationDuration(claims); got != AccessTokenLifetime {
		t.Errorf("missing exp must fall back to %v, got %v", AccessTokenLifetime, got)
	}
}

func TestAccessTokenLifetimes(t *testing.T) {
	if AccessTokenLifetime != 15*time.Minute {
		t.Errorf("access lifetime = %v", AccessTokenLifetime)
	}
	if RefreshTokenLifetime != 30*24*time.Hour {
		t.Errorf("refresh lifetime = %v", RefreshTokenLifetime)
	}
}
