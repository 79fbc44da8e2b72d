package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/icco/recall"
)

func (s *Store) CreateSession(ctx context.Context, session *recall.Session) error {
	return s.db.WithContext(ctx).Omit("Game", "Rounds").Create(session).Error
}

func (s *Store) FindUserSession(ctx context.Context, id, userID int64) (*recall.Session, error) {
	var session recall.Session
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) UpdateUserSession(ctx context.Context, id, userID int64, updates map[string]interface{}) (*recall.Session, error) {
	result := s.db.WithContext(ctx).Model(&recall.Session{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.FindUserSession(ctx, id, userID)
}

func (s *Store) CreateRound(ctx context.Context, round *recall.Round) error {
	return s.db.WithContext(ctx).Create(round).Error
}

// ListRounds returns a session's rounds in play order.
func (s *Store) ListRounds(ctx context.Context, sessionID int64) ([]recall.Round, error) {
	var rounds []recall.Round
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("round_number, created_at, id").
		Find(&rounds).Error
	if err != nil {
		return nil, err
	}
	return rounds, nil
}
