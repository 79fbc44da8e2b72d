package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/icco/recall"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use in-memory SQLite for testing with silent logger to avoid test output pollution
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Every pooled connection to :memory: is a new database, so keep one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func int64Ptr(v int64) *int64 { return &v }

func TestOpenRequiresDatabase(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("Expected error when no database is configured")
	}
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(Config{SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}

	if !db.Migrator().HasTable(&recall.Performance{}) {
		t.Error("Expected performances table to be migrated")
	}

	if err := New(db).Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCreateGame(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	game := &recall.Game{OwnerID: int64Ptr(1), Name: "Recall", GameType: "sequence", IsActive: true}
	if err := s.CreateGame(ctx, game); err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	if game.ID <= 0 {
		t.Error("Expected positive game ID")
	}
	if game.Slug == "" {
		t.Error("Expected non-empty slug")
	}

	other := &recall.Game{OwnerID: int64Ptr(1), Name: "Pairs", GameType: "pairs", IsActive: true}
	if err := s.CreateGame(ctx, other); err != nil {
		t.Fatalf("Failed to create second game: %v", err)
	}
	if other.Slug == game.Slug {
		t.Errorf("Expected distinct slugs, both were %s", game.Slug)
	}
}

func TestCreateGameKeepsInactiveFlag(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	game := &recall.Game{OwnerID: int64Ptr(1), Name: "Dormant", GameType: "sequence", IsActive: false}
	if err := s.CreateGame(ctx, game); err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	found, err := s.FindGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("Failed to find game: %v", err)
	}
	if found.IsActive {
		t.Error("Expected game to stay inactive")
	}
}

func TestFindOwnedGame(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	game := &recall.Game{OwnerID: int64Ptr(1), Name: "Recall", GameType: "sequence", IsActive: true}
	if err := s.CreateGame(ctx, game); err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	if _, err := s.FindOwnedGame(ctx, game.ID, 1); err != nil {
		t.Errorf("Expected owner to find game: %v", err)
	}

	if _, err := s.FindOwnedGame(ctx, game.ID, 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound for another owner, got %v", err)
	}

	if _, err := s.FindOwnedGame(ctx, 999, 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound for missing game, got %v", err)
	}
}

func TestListAccessibleGames(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	games := []*recall.Game{
		{Name: "System", GameType: "sequence", IsActive: true},
		{Name: "System off", GameType: "sequence", IsActive: false},
		{OwnerID: int64Ptr(1), Name: "Mine", GameType: "pairs", IsActive: true},
		{OwnerID: int64Ptr(2), Name: "Theirs", GameType: "pairs", IsActive: true},
	}
	for _, g := range games {
		if err := s.CreateGame(ctx, g); err != nil {
			t.Fatalf("Failed to create game %s: %v", g.Name, err)
		}
	}

	got, err := s.ListAccessibleGames(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list games: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(got))
	}
	if got[0].Name != "System" || got[1].Name != "Mine" {
		t.Errorf("Unexpected games: %s, %s", got[0].Name, got[1].Name)
	}

	system, err := s.ListSystemGames(ctx)
	if err != nil {
		t.Fatalf("Failed to list system games: %v", err)
	}
	if len(system) != 2 {
		t.Errorf("Expected 2 system games, got %d", len(system))
	}
}

func TestUpdateOwnedGame(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	desc := "numbers"
	game := &recall.Game{OwnerID: int64Ptr(1), Name: "Recall", Description: &desc, GameType: "sequence", IsActive: true}
	if err := s.CreateGame(ctx, game); err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	updated, err := s.UpdateOwnedGame(ctx, game.ID, 1, map[string]interface{}{
		"name":        "Recall II",
		"description": nil,
		"is_active":   false,
	})
	if err != nil {
		t.Fatalf("Failed to update game: %v", err)
	}

	if updated.Name != "Recall II" {
		t.Errorf("Expected name Recall II, got %s", updated.Name)
	}
	if updated.Description != nil {
		t.Errorf("Expected description to be cleared, got %q", *updated.Description)
	}
	if updated.IsActive {
		t.Error("Expected game to be inactive")
	}
	if updated.GameType != "sequence" {
		t.Errorf("Expected game type to be untouched, got %s", updated.GameType)
	}

	_, err = s.UpdateOwnedGame(ctx, game.ID, 2, map[string]interface{}{"name": "Stolen"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound for another owner, got %v", err)
	}
}

func TestSessionsAndRounds(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	game := &recall.Game{Name: "Recall", GameType: "sequence", IsActive: true}
	if err := s.CreateGame(ctx, game); err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	session := &recall.Session{GameID: game.ID, UserID: 1, Status: recall.StatusInProgress, StartedAt: time.Now()}
	if err := s.CreateSession(ctx, session); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if _, err := s.FindUserSession(ctx, session.ID, 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound for another user, got %v", err)
	}

	for _, n := range []int{2, 1} {
		round := &recall.Round{
			SessionID:   session.ID,
			RoundNumber: n,
			Prompt:      recall.Document{"seq": []int{1, 2, n}},
			CreatedAt:   time.Now(),
		}
		if err := s.CreateRound(ctx, round); err != nil {
			t.Fatalf("Failed to create round: %v", err)
		}
	}

	rounds, err := s.ListRounds(ctx, session.ID)
	if err != nil {
		t.Fatalf("Failed to list rounds: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("Expected 2 rounds, got %d", len(rounds))
	}
	if rounds[0].RoundNumber != 1 || rounds[1].RoundNumber != 2 {
		t.Errorf("Expected rounds in order, got %d, %d", rounds[0].RoundNumber, rounds[1].RoundNumber)
	}
	if _, ok := rounds[0].Prompt["seq"]; !ok {
		t.Error("Expected prompt to round-trip through the JSON column")
	}

	updated, err := s.UpdateUserSession(ctx, session.ID, 1, map[string]interface{}{
		"status":      recall.StatusCompleted,
		"total_score": 10,
		"ended_at":    time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to update session: %v", err)
	}
	if updated.Status != recall.StatusCompleted || updated.TotalScore != 10 || updated.EndedAt == nil {
		t.Errorf("Unexpected session after update: %+v", updated)
	}

	_, err = s.UpdateUserSession(ctx, session.ID, 2, map[string]interface{}{"status": recall.StatusAbandoned})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound for another user, got %v", err)
	}
}

func TestPerformance(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	game := &recall.Game{Name: "Recall", GameType: "sequence", IsActive: true}
	if err := s.CreateGame(ctx, game); err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}

	if _, err := s.FindPerformance(ctx, 1, game.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Expected ErrRecordNotFound before insert, got %v", err)
	}

	perf := &recall.Performance{UserID: 1, GameID: game.ID, TotalSessions: 5}
	if err := s.CreatePerformance(ctx, perf); err != nil {
		t.Fatalf("Failed to create performance: %v", err)
	}

	perf.BestScore = 90
	if err := s.UpdatePerformance(ctx, perf); err != nil {
		t.Fatalf("Failed to update performance: %v", err)
	}

	found, err := s.FindPerformance(ctx, 1, game.ID)
	if err != nil {
		t.Fatalf("Failed to find performance: %v", err)
	}
	if found.ID != perf.ID || found.TotalSessions != 5 || found.BestScore != 90 {
		t.Errorf("Unexpected performance: %+v", found)
	}

	all, err := s.ListPerformance(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list performance: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected a single row, got %d", len(all))
	}
}

func TestUsers(t *testing.T) {
	s := New(setupTestDB(t))
	ctx := context.Background()

	user := &recall.User{ProviderID: "abc", Email: "test@example.com", Name: "Test User"}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	byEmail, err := s.FindUserByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("Failed to find user by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("Expected user %d, got %d", user.ID, byEmail.ID)
	}

	if _, err := s.FindUser(ctx, 999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}

	dup := &recall.User{ProviderID: "def", Email: "test@example.com"}
	if err := s.CreateUser(ctx, dup); err == nil {
		t.Error("Expected duplicate email to fail")
	}
}
