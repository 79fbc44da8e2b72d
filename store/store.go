package store

import (
	"context"

	"github.com/ifo/sanic"
	"gorm.io/gorm"

	"github.com/icco/recall"
)

// Store implements recall.Store on a GORM handle.
type Store struct {
	db    *gorm.DB
	slugs *sanic.Worker
}

var _ recall.Store = (*Store)(nil)

// New returns a Store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		slugs: sanic.NewWorker7(),
	}
}

// DB exposes the underlying handle, mostly for health checks and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) newSlug() string {
	return s.slugs.IDString(s.slugs.NextID())
}
