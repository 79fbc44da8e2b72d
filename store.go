package recall

import "context"

// Store is the persistence the operations run against. Lookups report a
// missing row with gorm.ErrRecordNotFound.
type Store interface {
	CreateGame(ctx context.Context, g *Game) error
	FindGame(ctx context.Context, id int64) (*Game, error)
	FindOwnedGame(ctx context.Context, id, ownerID int64) (*Game, error)
	ListGamesByOwner(ctx context.Context, ownerID int64) ([]Game, error)
	ListAccessibleGames(ctx context.Context, userID int64) ([]Game, error)
	UpdateOwnedGame(ctx context.Context, id, ownerID int64, updates map[string]interface{}) (*Game, error)

	CreateSession(ctx context.Context, s *Session) error
	FindUserSession(ctx context.Context, id, userID int64) (*Session, error)
	UpdateUserSession(ctx context.Context, id, userID int64, updates map[string]interface{}) (*Session, error)

	CreateRound(ctx context.Context, r *Round) error
	ListRounds(ctx context.Context, sessionID int64) ([]Round, error)

	FindPerformance(ctx context.Context, userID, gameID int64) (*Performance, error)
	CreatePerformance(ctx context.Context, p *Performance) error
	UpdatePerformance(ctx context.Context, p *Performance) error
	ListPerformance(ctx context.Context, userID int64) ([]Performance, error)
}
