package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/auth"
)

const testSecret = "test-secret-for-token-tests"

func TestIssuePairRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager(testSecret)

	access, refresh, err := tm.IssuePair("user-1", "a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if access == refresh {
		t.Fatal("access and refresh tokens should differ")
	}

	for _, token := range []string{access, refresh} {
		claims, err := tm.Verify(token)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if claims.UserID != "user-1" {
			t.Errorf("expected userId user-1, got %q", claims.UserID)
		}
		if claims.Email != "a@x.com" {
			t.Errorf("expected email a@x.com, got %q", claims.Email)
		}
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	// Sign an otherwise valid token whose expiry is in the past.
	claims := &auth.Claims{
		UserID: "user-1",
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	if _, err := auth.NewTokenManager(testSecret).Verify(signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	access, _, err := auth.NewTokenManager(testSecret).IssuePair("user-1", "a@x.com")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if _, err := auth.NewTokenManager("a-different-secret").Verify(access); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager(testSecret)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tm.Verify(token); err == nil {
			t.Errorf("expected %q to be rejected", token)
		}
	}
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}

	if _, err := auth.NewTokenManager(testSecret).Verify(signed); err == nil {
		t.Fatal("expected token without userId claim to be rejected")
	}
}
