package store

import (
	"context"

	"github.com/icco/recall"
)

func (s *Store) CreateUser(ctx context.Context, user *recall.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Store) FindUser(ctx context.Context, id int64) (*recall.User, error) {
	var user recall.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*recall.User, error) {
	var user recall.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
