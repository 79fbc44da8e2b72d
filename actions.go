package recall

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actions is the operation layer. Every method resolves the caller from ctx
// first and fails with ErrUnauthorized when there is none.
type Actions struct {
	store Store
	log   *zap.SugaredLogger

	// Now is the clock used for every timestamp the operations set.
	Now func() time.Time
}

// NewActions wires the operations to a store. A nil logger discards output.
func NewActions(store Store, log *zap.SugaredLogger) *Actions {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Actions{
		store: store,
		log:   log,
		Now:   time.Now,
	}
}

// lookup translates a store miss into a NotFound error carrying msg.
func lookup(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(msg)
	}
	return internal(msg, err)
}

// CreateGame inserts a Game owned by the caller.
func (a *Actions) CreateGame(ctx context.Context, in CreateGameInput) (*Game, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	game := &Game{
		OwnerID:          &userID,
		Name:             in.Name,
		Description:      in.Description,
		GameType:         in.GameType,
		DifficultyLevels: in.DifficultyLevels,
		IsActive:         active,
		CreatedAt:        a.Now(),
	}
	if err := a.store.CreateGame(ctx, game); err != nil {
		return nil, internal("could not create game", err)
	}

	a.log.Infow("game created", "game_id", game.ID, "user_id", userID)
	return game, nil
}

// UpdateGame applies the present fields of in to a Game the caller owns. A
// missing game and a foreign game are both reported as NotFound. When no
// field is present nothing is written and the stored Game is returned.
func (a *Actions) UpdateGame(ctx context.Context, in UpdateGameInput) (*Game, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := a.store.FindOwnedGame(ctx, in.ID, userID)
	if err != nil {
		return nil, lookup(err, "Game not found")
	}

	updates := in.changes()
	if len(updates) == 0 {
		return existing, nil
	}

	game, err := a.store.UpdateOwnedGame(ctx, in.ID, userID, updates)
	if err != nil {
		return nil, lookup(err, "Game not found")
	}
	return game, nil
}

// ListMyGames returns the games the caller authored. Inactive games are
// dropped unless in.IncludeInactive is set. System games are never included.
func (a *Actions) ListMyGames(ctx context.Context, in ListMyGamesInput) ([]Game, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	games, err := a.store.ListGamesByOwner(ctx, userID)
	if err != nil {
		return nil, internal("could not list games", err)
	}

	if in.IncludeInactive {
		return games, nil
	}

	active := make([]Game, 0, len(games))
	for _, g := range games {
		if g.IsActive {
			active = append(active, g)
		}
	}
	return active, nil
}

// ListAvailableGames returns every active game the caller may play: their
// own and the system-owned ones.
func (a *Actions) ListAvailableGames(ctx context.Context) ([]Game, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	games, err := a.store.ListAccessibleGames(ctx, userID)
	if err != nil {
		return nil, internal("could not list games", err)
	}
	return games, nil
}

// GetGame returns a game the caller owns or a system game.
func (a *Actions) GetGame(ctx context.Context, id int64) (*Game, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	game, err := a.store.FindGame(ctx, id)
	if err != nil {
		return nil, lookup(err, "Game not found")
	}
	if !GameAccess(game, userID).Usable() {
		return nil, NotFound("Game not found")
	}
	return game, nil
}

// StartSession opens an in_progress Session on an active game the caller may
// use. Missing, foreign and inactive games all fail the same way.
func (a *Actions) StartSession(ctx context.Context, in StartSessionInput) (*Session, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	game, err := a.store.FindGame(ctx, in.GameID)
	if err != nil {
		return nil, lookup(err, "Game not available")
	}
	if !GameAccess(game, userID).Usable() || !game.IsActive {
		return nil, NotFound("Game not available")
	}

	session := &Session{
		GameID:     game.ID,
		UserID:     userID,
		Status:     StatusInProgress,
		Difficulty: in.Difficulty,
		StartedAt:  a.Now(),
		Meta:       in.Meta,
	}
	if err := a.store.CreateSession(ctx, session); err != nil {
		return nil, internal("could not start session", err)
	}

	a.log.Infow("session started", "session_id", session.ID, "game_id", game.ID, "user_id", userID)
	return session, nil
}

// GetSession returns one of the caller's sessions with its rounds.
func (a *Actions) GetSession(ctx context.Context, id int64) (*Session, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	session, err := a.store.FindUserSession(ctx, id, userID)
	if err != nil {
		return nil, lookup(err, "Session not found")
	}

	rounds, err := a.store.ListRounds(ctx, session.ID)
	if err != nil {
		return nil, internal("could not list rounds", err)
	}
	session.Rounds = rounds
	return session, nil
}

// CompleteSession closes one of the caller's sessions. Status defaults to
// completed and EndedAt is stamped whatever the resulting status is.
func (a *Actions) CompleteSession(ctx context.Context, in CompleteSessionInput) (*Session, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := a.store.FindUserSession(ctx, in.ID, userID)
	if err != nil {
		return nil, lookup(err, "Session not found")
	}

	totalScore := existing.TotalScore
	if in.TotalScore != nil {
		totalScore = *in.TotalScore
	}
	difficulty := existing.Difficulty
	if in.Difficulty != nil {
		difficulty = in.Difficulty
	}
	status := StatusCompleted
	if in.Status != nil {
		status = *in.Status
	}

	updates := map[string]interface{}{
		"total_score": totalScore,
		"difficulty":  difficulty,
		"status":      status,
		"ended_at":    a.Now(),
	}
	if in.Meta != nil {
		updates["meta"] = in.Meta
	}

	session, err := a.store.UpdateUserSession(ctx, in.ID, userID, updates)
	if err != nil {
		return nil, lookup(err, "Session not found")
	}

	a.log.Infow("session ended", "session_id", session.ID, "status", session.Status, "total_score", session.TotalScore)
	return session, nil
}

// RecordRound appends a Round to one of the caller's sessions. The session's
// status is not consulted.
func (a *Actions) RecordRound(ctx context.Context, in RecordRoundInput) (*Round, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	session, err := a.store.FindUserSession(ctx, in.SessionID, userID)
	if err != nil {
		return nil, lookup(err, "Session not found")
	}

	round := &Round{
		SessionID:   session.ID,
		RoundNumber: 1,
		Prompt:      in.Prompt,
		Response:    in.Response,
		CreatedAt:   a.Now(),
	}
	if in.RoundNumber != nil {
		round.RoundNumber = *in.RoundNumber
	}
	if in.IsCorrect != nil {
		round.IsCorrect = *in.IsCorrect
	}
	if in.Score != nil {
		round.Score = *in.Score
	}

	if err := a.store.CreateRound(ctx, round); err != nil {
		return nil, internal("could not record round", err)
	}
	return round, nil
}

// UpsertPerformance writes the caller's aggregates for a game. Each value is
// taken from in, else from the stored row, else zero.
func (a *Actions) UpsertPerformance(ctx context.Context, in UpsertPerformanceInput) (*Performance, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	game, err := a.store.FindGame(ctx, in.GameID)
	if err != nil {
		return nil, lookup(err, "Game not found")
	}
	if !GameAccess(game, userID).Usable() {
		return nil, NotFound("Game not found")
	}

	existing, err := a.store.FindPerformance(ctx, userID, game.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internal("could not load performance", err)
	}

	perf := mergePerformance(existing, in)
	perf.UserID = userID
	perf.GameID = game.ID
	perf.UpdatedAt = a.Now()

	if existing != nil {
		err = a.store.UpdatePerformance(ctx, perf)
	} else {
		err = a.store.CreatePerformance(ctx, perf)
	}
	if err != nil {
		return nil, internal("could not save performance", err)
	}
	return perf, nil
}

func mergePerformance(existing *Performance, in UpsertPerformanceInput) *Performance {
	perf := &Performance{}
	if existing != nil {
		*perf = *existing
	}
	if in.TotalSessions != nil {
		perf.TotalSessions = *in.TotalSessions
	}
	if in.AverageScore != nil {
		perf.AverageScore = *in.AverageScore
	}
	if in.BestScore != nil {
		perf.BestScore = *in.BestScore
	}
	if in.DifficultyPreference != nil {
		perf.DifficultyPreference = in.DifficultyPreference
	}
	return perf
}

// ListPerformance returns the caller's aggregate rows.
func (a *Actions) ListPerformance(ctx context.Context) ([]Performance, error) {
	userID, err := authorize(ctx)
	if err != nil {
		return nil, err
	}

	perfs, err := a.store.ListPerformance(ctx, userID)
	if err != nil {
		return nil, internal("could not list performance", err)
	}
	return perfs, nil
}
