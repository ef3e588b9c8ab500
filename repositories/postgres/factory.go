package postgres

import (
	"context"

	"github.com/upb/pet-house-api/config"
	"go.uber.org/zap"
)

// Open connects to PostgreSQL, ensures the documents table exists and
// returns a store sharing the single connection pool.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DocumentStore, error) {
	db, err := NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.InitSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewDocumentStore(db, logger), nil
}
