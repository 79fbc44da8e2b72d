package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/icco/recall"
	"github.com/icco/recall/store"
	"go.uber.org/zap"
)

//go:embed games.json
var defaultCatalog []byte

// loadCatalog parses a JSON array of games. An empty path yields the built in
// catalog.
func loadCatalog(path string) ([]recall.CreateGameInput, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}

	var games []recall.CreateGameInput
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i := range games {
		if err := games[i].Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	return games, nil
}

// seedGames inserts each game as system-owned unless a system game with the
// same name exists. It returns the number inserted.
func seedGames(ctx context.Context, st *store.Store, games []recall.CreateGameInput, log *zap.SugaredLogger) (int, error) {
	existing, err := st.ListSystemGames(ctx)
	if err != nil {
		return 0, fmt.Errorf("list system games: %w", err)
	}

	names := make(map[string]bool, len(existing))
	for _, g := range existing {
		names[g.Name] = true
	}

	inserted := 0
	for _, in := range games {
		if names[in.Name] {
			log.Infow("skipping existing game", "name", in.Name)
			continue
		}

		active := true
		if in.IsActive != nil {
			active = *in.IsActive
		}
		game := &recall.Game{
			Name:             in.Name,
			Description:      in.Description,
			GameType:         in.GameType,
			DifficultyLevels: in.DifficultyLevels,
			IsActive:         active,
		}
		if err := st.CreateGame(ctx, game); err != nil {
			return inserted, fmt.Errorf("create %q: %w", in.Name, err)
		}

		names[in.Name] = true
		inserted++
		log.Infow("seeded game", "id", game.ID, "slug", game.Slug, "name", game.Name)
	}
	return inserted, nil
}
