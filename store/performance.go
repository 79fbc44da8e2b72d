package store

import (
	"context"

	"github.com/icco/recall"
)

func (s *Store) FindPerformance(ctx context.Context, userID, gameID int64) (*recall.Performance, error) {
	var perf recall.Performance
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Order("id").
		First(&perf).Error
	if err != nil {
		return nil, err
	}
	return &perf, nil
}

func (s *Store) CreatePerformance(ctx context.Context, perf *recall.Performance) error {
	return s.db.WithContext(ctx).Omit("Game").Create(perf).Error
}

// UpdatePerformance writes every column of perf to its existing row.
func (s *Store) UpdatePerformance(ctx context.Context, perf *recall.Performance) error {
	return s.db.WithContext(ctx).Omit("Game").Save(perf).Error
}

func (s *Store) ListPerformance(ctx context.Context, userID int64) ([]recall.Performance, error) {
	var perfs []recall.Performance
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("game_id").Find(&perfs).Error; err != nil {
		return nil, err
	}
	return perfs, nil
}
