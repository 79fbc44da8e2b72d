package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/icco/recall"
)

// CreateGame inserts g, giving it a slug when it has none.
func (s *Store) CreateGame(ctx context.Context, g *recall.Game) error {
	if g.Slug == "" {
		g.Slug = s.newSlug()
	}
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *Store) FindGame(ctx context.Context, id int64) (*recall.Game, error) {
	var game recall.Game
	if err := s.db.WithContext(ctx).First(&game, id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// FindOwnedGame matches on both id and owner, so a foreign game is
// indistinguishable from a missing one.
func (s *Store) FindOwnedGame(ctx context.Context, id, ownerID int64) (*recall.Game, error) {
	var game recall.Game
	if err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Store) ListGamesByOwner(ctx context.Context, ownerID int64) ([]recall.Game, error) {
	var games []recall.Game
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// ListAccessibleGames returns active games owned by userID or by nobody.
func (s *Store) ListAccessibleGames(ctx context.Context, userID int64) ([]recall.Game, error) {
	var games []recall.Game
	err := s.db.WithContext(ctx).
		Where("(owner_id = ? OR owner_id IS NULL) AND is_active = ?", userID, true).
		Order("id").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

// ListSystemGames returns every game without an owner.
func (s *Store) ListSystemGames(ctx context.Context) ([]recall.Game, error) {
	var games []recall.Game
	if err := s.db.WithContext(ctx).Where("owner_id IS NULL").Order("id").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// UpdateOwnedGame writes updates guarded by the ownership predicate, so a
// game that changed hands after it was read is left alone.
func (s *Store) UpdateOwnedGame(ctx context.Context, id, ownerID int64, updates map[string]interface{}) (*recall.Game, error) {
	result := s.db.WithContext(ctx).Model(&recall.Game{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.FindOwnedGame(ctx, id, ownerID)
}
