package recall

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.StrictPolicy()

// clean trims s and strips any markup from it.
func clean(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

func cleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	c := clean(*s)
	return &c
}

// CreateGameInput is the request for CreateGame.
type CreateGameInput struct {
	Name             string   `json:"name" example:"Recall"`
	Description      *string  `json:"description,omitempty"`
	GameType         string   `json:"game_type" example:"sequence"`
	DifficultyLevels Document `json:"difficulty_levels,omitempty" swaggertype:"object"`
	IsActive         *bool    `json:"is_active,omitempty"`
}

// Validate sanitizes text fields in place and reports the first invalid field.
func (in *CreateGameInput) Validate() error {
	in.Name = clean(in.Name)
	in.GameType = clean(in.GameType)
	in.Description = cleanPtr(in.Description)
	if in.Name == "" {
		return Invalid("name", "is required")
	}
	if in.GameType == "" {
		return Invalid("game_type", "is required")
	}
	return nil
}

// UpdateGameInput is the request for UpdateGame. Only present fields are
// written.
type UpdateGameInput struct {
	ID               int64           `json:"id"`
	Name             Field[string]   `json:"name,omitzero" swaggertype:"string"`
	Description      Field[string]   `json:"description,omitzero" swaggertype:"string"`
	GameType         Field[string]   `json:"game_type,omitzero" swaggertype:"string"`
	DifficultyLevels Field[Document] `json:"difficulty_levels,omitzero" swaggertype:"object"`
	IsActive         Field[bool]     `json:"is_active,omitzero" swaggertype:"boolean"`
}

// Validate sanitizes text fields in place and reports the first invalid field.
// Description and DifficultyLevels may be cleared; the rest may not.
func (in *UpdateGameInput) Validate() error {
	if in.ID <= 0 {
		return Invalid("id", "is required")
	}
	if in.Name.Set {
		if in.Name.Value == nil || clean(*in.Name.Value) == "" {
			return Invalid("name", "must not be empty")
		}
		in.Name.Value = cleanPtr(in.Name.Value)
	}
	if in.GameType.Set {
		if in.GameType.Value == nil || clean(*in.GameType.Value) == "" {
			return Invalid("game_type", "must not be empty")
		}
		in.GameType.Value = cleanPtr(in.GameType.Value)
	}
	if in.IsActive.Set && in.IsActive.Value == nil {
		return Invalid("is_active", "must be a boolean")
	}
	in.Description.Value = cleanPtr(in.Description.Value)
	return nil
}

// changes returns the columns to write, keyed by column name.
func (in *UpdateGameInput) changes() map[string]interface{} {
	updates := make(map[string]interface{})
	if in.Name.Set {
		updates["name"] = *in.Name.Value
	}
	if in.Description.Set {
		if in.Description.Value == nil {
			updates["description"] = nil
		} else {
			updates["description"] = *in.Description.Value
		}
	}
	if in.GameType.Set {
		updates["game_type"] = *in.GameType.Value
	}
	if in.DifficultyLevels.Set {
		if in.DifficultyLevels.Value == nil {
			updates["difficulty_levels"] = nil
		} else {
			updates["difficulty_levels"] = *in.DifficultyLevels.Value
		}
	}
	if in.IsActive.Set {
		updates["is_active"] = *in.IsActive.Value
	}
	return updates
}

// ListMyGamesInput is the request for ListMyGames.
type ListMyGamesInput struct {
	IncludeInactive bool `json:"include_inactive"`
}

// StartSessionInput is the request for StartSession.
type StartSessionInput struct {
	GameID     int64    `json:"game_id"`
	Difficulty *string  `json:"difficulty,omitempty"`
	Meta       Document `json:"meta,omitempty" swaggertype:"object"`
}

// Validate sanitizes text fields in place and reports the first invalid field.
func (in *StartSessionInput) Validate() error {
	if in.GameID <= 0 {
		return Invalid("game_id", "is required")
	}
	in.Difficulty = cleanPtr(in.Difficulty)
	return nil
}

// CompleteSessionInput is the request for CompleteSession. Omitted fields keep
// their stored values, except Status which defaults to completed.
type CompleteSessionInput struct {
	ID         int64          `json:"id"`
	TotalScore *int           `json:"total_score,omitempty"`
	Difficulty *string        `json:"difficulty,omitempty"`
	Status     *SessionStatus `json:"status,omitempty" swaggertype:"string" enums:"in_progress,completed,abandoned"`
	Meta       Document       `json:"meta,omitempty" swaggertype:"object"`
}

// Validate sanitizes text fields in place and reports the first invalid field.
func (in *CompleteSessionInput) Validate() error {
	if in.ID <= 0 {
		return Invalid("id", "is required")
	}
	if in.TotalScore != nil && *in.TotalScore < 0 {
		return Invalid("total_score", "must not be negative")
	}
	if in.Status != nil && !in.Status.Valid() {
		return Invalid("status", "must be one of in_progress, completed, abandoned")
	}
	in.Difficulty = cleanPtr(in.Difficulty)
	return nil
}

// RecordRoundInput is the request for RecordRound.
type RecordRoundInput struct {
	SessionID   int64    `json:"session_id"`
	RoundNumber *int     `json:"round_number,omitempty"`
	Prompt      Document `json:"prompt" swaggertype:"object"`
	Response    Document `json:"response,omitempty" swaggertype:"object"`
	IsCorrect   *bool    `json:"is_correct,omitempty"`
	Score       *int     `json:"score,omitempty"`
}

// Validate reports the first invalid field.
func (in *RecordRoundInput) Validate() error {
	if in.SessionID <= 0 {
		return Invalid("session_id", "is required")
	}
	if in.RoundNumber != nil && *in.RoundNumber < 1 {
		return Invalid("round_number", "must be positive")
	}
	if in.Prompt == nil {
		return Invalid("prompt", "is required")
	}
	if in.Score != nil && *in.Score < 0 {
		return Invalid("score", "must not be negative")
	}
	return nil
}

// UpsertPerformanceInput is the request for UpsertPerformance.
type UpsertPerformanceInput struct {
	GameID               int64    `json:"game_id"`
	TotalSessions        *int     `json:"total_sessions,omitempty"`
	AverageScore         *float64 `json:"average_score,omitempty"`
	BestScore            *int     `json:"best_score,omitempty"`
	DifficultyPreference *string  `json:"difficulty_preference,omitempty"`
}

// Validate sanitizes text fields in place and reports the first invalid field.
func (in *UpsertPerformanceInput) Validate() error {
	if in.GameID <= 0 {
		return Invalid("game_id", "is required")
	}
	if in.TotalSessions != nil && *in.TotalSessions < 0 {
		return Invalid("total_sessions", "must not be negative")
	}
	if in.AverageScore != nil && *in.AverageScore < 0 {
		return Invalid("average_score", "must not be negative")
	}
	if in.BestScore != nil && *in.BestScore < 0 {
		return Invalid("best_score", "must not be negative")
	}
	in.DifficultyPreference = cleanPtr(in.DifficultyPreference)
	return nil
}
