package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/icco/recall/store"
	"go.uber.org/zap"
)

func TestLoadCatalog(t *testing.T) {
	games, err := loadCatalog("")
	if err != nil {
		t.Fatalf("Failed to load built in catalog: %v", err)
	}
	if len(games) == 0 {
		t.Fatal("Expected built in catalog to have games")
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"name": "No type"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadCatalog(bad); err == nil {
		t.Error("Expected entry without game_type to be rejected")
	}

	if _, err := loadCatalog(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected missing file to fail")
	}
}

func TestSeedGamesSkipsExisting(t *testing.T) {
	db, err := store.Open(store.Config{SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	st := store.New(db)
	log := zap.NewNop().Sugar()

	games, err := loadCatalog("")
	if err != nil {
		t.Fatal(err)
	}

	n, err := seedGames(t.Context(), st, games, log)
	if err != nil {
		t.Fatalf("First seed failed: %v", err)
	}
	if n != len(games) {
		t.Errorf("Expected %d inserted, got %d", len(games), n)
	}

	n, err = seedGames(t.Context(), st, games, log)
	if err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected re-seeding to insert nothing, got %d", n)
	}

	system, err := st.ListSystemGames(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(system) != len(games) {
		t.Errorf("Expected %d system games, got %d", len(games), len(system))
	}
	for _, g := range system {
		if g.OwnerID != nil || !g.IsActive {
			t.Errorf("Expected active system game, got %+v", g)
		}
	}
}
