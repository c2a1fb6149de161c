package main

import (
	"os"
	"testing"
)

func TestMigrationsPath(t *testing.T) {
	orig := os.Getenv("MIGRATIONS_PATH")
	defer os.Setenv("MIGRATIONS_PATH", orig)

	os.Unsetenv("MIGRATIONS_PATH")
	if got := migrationsPath(); got != "migrations" {
		t.Fatalf("expected default path migrations, got %s", got)
	}

	os.Setenv("MIGRATIONS_PATH", "/srv/migrations")
	if got := migrationsPath(); got != "/srv/migrations" {
		t.Fatalf("expected overridden path, got %s", got)
	}
}
