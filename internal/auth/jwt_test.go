package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

var testUser = &model.User{ID: 7, Username: "maja", Role: model.RoleUser}

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer("test-secret-key", time.Hour)

	token, issued, err := iss.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := iss.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("expected user_id 7, got %d", claims.UserID)
	}
	if claims.Username != "maja" {
		t.Errorf("expected username 'maja', got %q", claims.Username)
	}
	if claims.Role != model.RoleUser {
		t.Errorf("expected role 'user', got %q", claims.Role)
	}
	if claims.ID == "" || claims.ID != issued.ID {
		t.Errorf("expected token ID %q, got %q", issued.ID, claims.ID)
	}
}

func TestIssueUniqueIDs(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	_, a, _ := iss.Issue(testUser)
	_, b, _ := iss.Issue(testUser)
	if a.ID == b.ID {
		t.Error("expected distinct token IDs")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, _ := NewIssuer("secret1", time.Hour).Issue(testUser)

	_, err := NewIssuer("secret2", time.Hour).Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewIssuer("secret", time.Hour).Verify("not-a-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return start }

	token, _, err := iss.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	iss.now = func() time.Time { return start.Add(2 * time.Hour) }
	if _, err := iss.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected expired token to be rejected, got %v", err)
	}
}

func TestTTL(t *testing.T) {
	if got := NewIssuer("s", 0).TTL(); got != DefaultTTL {
		t.Errorf("expected default TTL, got %v", got)
	}

	iss := NewIssuer("s", 30*time.Minute)
	_, claims, _ := iss.Issue(testUser)
	lifetime := claims.Expiry().Sub(claims.IssuedAt.Time)
	if lifetime != 30*time.Minute {
		t.Errorf("expected 30m lifetime, got %v", lifetime)
	}
}
