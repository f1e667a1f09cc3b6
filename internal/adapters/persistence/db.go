// Package persistence stores quotes, votes, API keys and login sessions with gorm.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jsamuelsen/quotefault/internal/platform/config"
)

const slowQueryThreshold = 200 * time.Millisecond

// Open connects to the configured database, sizes its connection pool,
// installs tracing and, when enabled, migrates the schema.
func Open(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("database config is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	dialector, err := dialect(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.NewSlogLogger(logger.With(slog.String("component", "gorm")), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			LogLevel:                  gormlogger.Warn,
		}),
		TranslateError: cfg.Driver == config.DriverPostgres,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.Tracing {
		err = db.Use(otelgorm.NewPlugin(
			otelgorm.WithDBName(cfg.Driver),
			otelgorm.WithoutQueryVariables(),
		))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("installing tracing: %w", err), sqlDB.Close())
		}
	}

	if cfg.AutoMigrate {
		err = Migrate(ctx, db)
		if err != nil {
			return nil, errors.Join(err, sqlDB.Close())
		}
	}

	logger.InfoContext(ctx, "database ready",
		slog.String("driver", cfg.Driver),
		slog.Bool("migrated", cfg.AutoMigrate),
	)

	return db, nil
}

func dialect(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate creates or updates the tables and indexes.
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&quoteRecord{},
		&voteRecord{},
		&apiKeyRecord{},
		&sessionRecord{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// HealthChecker pings the database.
type HealthChecker struct {
	db *gorm.DB
}

// NewHealthChecker creates a database health checker.
func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string {
	return "database"
}

// Check implements ports.HealthChecker.
func (h *HealthChecker) Check(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}
