package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"finance-tracker/internal/config"
	"finance-tracker/internal/db"
	"finance-tracker/internal/repository"
)

// Stores agrupa los repositorios del backend elegido por STORAGE_BACKEND.
type Stores struct {
	Users    repository.UserRepository
	Expenses repository.ExpenseRepository
	Groups   repository.GroupRepository

	pool *pgxpool.Pool
}

// OpenStores abre Postgres (aplicando migraciones si DB_MIGRATE) o crea los repos en memoria.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if cfg.StorageBackend == config.StorageBackendMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return &Stores{
			Users:    repository.NewMemoryUserRepository(),
			Expenses: repository.NewMemoryExpenseRepository(),
			Groups:   repository.NewMemoryGroupRepository(),
		}, nil
	}

	if cfg.DBMigrate {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database migrations applied")
	}
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return &Stores{
		Users:    repository.NewPgUserRepository(pool),
		Expenses: repository.NewPgExpenseRepository(pool),
		Groups:   repository.NewPgGroupRepository(pool),
		pool:     pool,
	}, nil
}

// Ready hace ping a la base; en memoria siempre está lista.
func (s *Stores) Ready(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return db.Ping(ctx, s.pool)
}

func (s *Stores) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// NewLogger arma el logger de producción con el nivel de LOG_LEVEL.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
