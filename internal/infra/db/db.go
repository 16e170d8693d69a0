package db

import (
	"fmt"
	"time"

	"github.com/slyt3/pagedrop/internal/config"
	"github.com/slyt3/pagedrop/internal/modules/model"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// New opens the configured datastore. Duplicate-key errors are translated to
// gorm.ErrDuplicatedKey so callers can detect slug collisions per dialect.
func New(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.Database.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	d, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(log, cfg.Log.Level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpen)
	}
	if cfg.Database.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return d, nil
}

// Migrate creates the projects and files tables if they are absent.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&model.Project{}, &model.File{})
}

// RegisterOpenTelemetryPlugin adds query spans. Query variables are left out,
// they carry whole uploaded documents.
func RegisterOpenTelemetryPlugin(d *gorm.DB) error {
	return d.Use(tracing.NewPlugin(tracing.WithoutQueryVariables()))
}
