package bootstrap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/slyt3/pagedrop/internal/config"
	"github.com/slyt3/pagedrop/internal/infra/blob"
	"github.com/slyt3/pagedrop/internal/infra/cache"
	"github.com/slyt3/pagedrop/internal/infra/db"
	"github.com/slyt3/pagedrop/internal/infra/logger"
	"github.com/slyt3/pagedrop/internal/infra/mq"
	"github.com/slyt3/pagedrop/internal/modules/handler"
	"github.com/slyt3/pagedrop/internal/modules/repo"
	"github.com/slyt3/pagedrop/internal/modules/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg, do.MustInvoke[*zap.Logger](i))
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis, nil when not configured
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		return cache.New(do.MustInvoke[*config.Config](i)), nil
	})

	// RabbitMQ
	do.Provide(inj, func(i *do.Injector) (mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (blob.Archiver, error) {
		return blob.NewArchiver(context.Background(), do.MustInvoke[*config.Config](i))
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i), nil), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ContentCache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ttl := time.Duration(cfg.Redis.ContentTTLSec) * time.Second
		return repo.NewContentCache(do.MustInvoke[*redis.Client](i), ttl), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.ContentCache](i),
			do.MustInvoke[blob.Archiver](i),
			do.MustInvoke[mq.Publisher](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.DeliveryService, error) {
		return service.NewDeliveryService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.ContentCache](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(
			do.MustInvoke[service.ProjectService](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.DeliveryHandler, error) {
		return handler.NewDeliveryHandler(
			do.MustInvoke[service.DeliveryService](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	return inj
}
