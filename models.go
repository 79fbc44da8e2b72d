package recall

import (
	"time"

	"gorm.io/datatypes"
)

// Document is an open key/value JSON value. Its shape is only checked at the
// request boundary.
type Document = datatypes.JSONMap

// SessionStatus is the lifecycle state of a Session.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

// Valid reports whether s is one of the three known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusAbandoned:
		return true
	}
	return false
}

// Game is a reusable activity definition. A nil OwnerID marks a system-owned
// game that every user may play.
type Game struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID          *int64    `gorm:"index" json:"owner_id"`
	Slug             string    `gorm:"type:text;uniqueIndex" json:"slug"`
	Name             string    `gorm:"type:text;not null" json:"name"`
	Description      *string   `gorm:"type:text" json:"description"`
	GameType         string    `gorm:"type:text;not null" json:"game_type"`
	DifficultyLevels Document  `json:"difficulty_levels"`
	IsActive         bool      `gorm:"not null" json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Session is one play-through of a Game by a user.
type Session struct {
	ID         int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	GameID     int64         `gorm:"index;not null" json:"game_id"`
	UserID     int64         `gorm:"index;not null" json:"user_id"`
	Status     SessionStatus `gorm:"type:text;not null" json:"status"`
	TotalScore int           `gorm:"not null;default:0" json:"total_score"`
	Difficulty *string       `gorm:"type:text" json:"difficulty"`
	StartedAt  time.Time     `gorm:"not null" json:"started_at"`
	EndedAt    *time.Time    `json:"ended_at"`
	Meta       Document      `json:"meta"`

	// Associations
	Game   *Game   `gorm:"foreignKey:GameID" json:"-"`
	Rounds []Round `gorm:"foreignKey:SessionID" json:"rounds,omitempty"`
}

// Round is one attempt within a Session. Rounds are never updated.
type Round struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID   int64     `gorm:"index;not null" json:"session_id"`
	RoundNumber int       `gorm:"not null" json:"round_number"`
	Prompt      Document  `gorm:"not null" json:"prompt"`
	Response    Document  `json:"response"`
	IsCorrect   bool      `gorm:"not null;default:false" json:"is_correct"`
	Score       int       `gorm:"not null;default:0" json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}

// Performance holds caller-supplied aggregates for a (user, game) pair.
type Performance struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               int64     `gorm:"not null;index:idx_performance_user_game" json:"user_id"`
	GameID               int64     `gorm:"not null;index:idx_performance_user_game" json:"game_id"`
	TotalSessions        int       `gorm:"not null;default:0" json:"total_sessions"`
	AverageScore         float64   `gorm:"not null;default:0" json:"average_score"`
	BestScore            int       `gorm:"not null;default:0" json:"best_score"`
	DifficultyPreference *string   `gorm:"type:text" json:"difficulty_preference"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Associations
	Game *Game `gorm:"foreignKey:GameID" json:"-"`
}

// User represents a local account that can be issued identity tokens.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProviderID   string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"-"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Name         string    `gorm:"type:varchar(128)" json:"name,omitempty"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
