// Package store implements the persistence layer of the accounts service:
// a PostgreSQL-backed account repository, sentinel errors for well-known
// failure conditions, and an error classifier that distinguishes retryable
// driver failures from permanent ones.
package store

import (
	"context"

	"github.com/snikitin/accounts-service/internal/config"
	"github.com/snikitin/accounts-service/internal/logger"
)

// Storages aggregates all repositories used by the service layer.
type Storages struct {
	AccountRepository AccountRepository

	db *DB
}

// NewStorages connects to PostgreSQL, runs pending migrations via the
// caller (see migrations.Migrate), and constructs all repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	return &Storages{
		AccountRepository: NewAccountRepository(db, log),
		db:                db,
	}, nil
}

// DB exposes the underlying connection for migrations and shutdown.
func (s *Storages) DB() *DB {
	return s.db
}

// Close releases the database connection pool.
func (s *Storages) Close() error {
	return s.db.Close()
}
