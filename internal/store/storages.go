package store

import (
	"context"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/config"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
)

// Storages aggregates every repository backed by the shared database
// connection. It is constructed once at startup and handed to the service
// layer.
type Storages struct {
	UserRepository       UserRepository
	EmbeddingRepository  EmbeddingRepository
	AttendanceRepository AttendanceRepository

	db *DB
}

// NewStorages connects to the database, applies pending migrations and wires
// all repositories.
func NewStorages(ctx context.Context, cfg config.Storage, dimension int, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		return nil, err
	}

	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		EmbeddingRepository:  NewEmbeddingRepository(db, dimension, log),
		AttendanceRepository: NewAttendanceRepository(db, log),
		db:                   db,
	}, nil
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
