package store

import (
	"context"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
)

func TestGetJWTSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// First call should generate a secret.
	secret1, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	v, err := GetSetting(ctx, database, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if v != "" {
		t.Errorf("expected empty value for missing setting, got %q", v)
	}

	SetSetting(ctx, database, "site_name", "Najdeno")
	SetSetting(ctx, database, "site_name", "Najdeno Ljubljana")

	v, _ = GetSetting(ctx, database, "site_name")
	if v != "Najdeno Ljubljana" {
		t.Errorf("expected overwritten value, got %q", v)
	}
}
