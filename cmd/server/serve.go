package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/slyt3/pagedrop/internal/bootstrap"
	"github.com/slyt3/pagedrop/internal/config"
	"github.com/slyt3/pagedrop/internal/infra/cache"
	dbpkg "github.com/slyt3/pagedrop/internal/infra/db"
	"github.com/slyt3/pagedrop/internal/infra/mq"
	"github.com/slyt3/pagedrop/internal/modules/handler"
	"github.com/slyt3/pagedrop/internal/modules/model"
	"github.com/slyt3/pagedrop/internal/modules/service"
	"github.com/slyt3/pagedrop/internal/router"
	"github.com/slyt3/pagedrop/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "run the http server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCMD.AddCommand(serveCMD)
}

func runServe(cmd *cobra.Command, args []string) error {
	// build dependency injection container
	inj := bootstrap.BuildContainer()

	cfg, err := do.Invoke[*config.Config](inj)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := do.Invoke[*zap.Logger](inj)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := do.Invoke[*gorm.DB](inj)
	if err != nil {
		log.Sugar().Errorw("failed to open database", "driver", cfg.Database.Driver, "err", err)
		return err
	}
	rdb := do.MustInvoke[*redis.Client](inj)

	events, err := do.Invoke[mq.Publisher](inj)
	if err != nil {
		log.Sugar().Errorw("failed to connect to rabbitmq", "err", err)
		return err
	}
	defer func() { _ = events.Close() }()

	// Setup OpenTelemetry tracing (using configuration system)
	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Sugar().Warnw("failed to setup tracing, continuing without tracing", "err", err)
	} else if tp != nil {
		log.Sugar().Infow("OpenTelemetry tracing enabled", "endpoint", cfg.Telemetry.OtlpEndpoint)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(ctx); err != nil {
				log.Sugar().Errorw("failed to shutdown tracer", "err", err)
			}
		}()

		// Register GORM OpenTelemetry plugin after tracer provider is set
		if err := dbpkg.RegisterOpenTelemetryPlugin(db); err != nil {
			log.Sugar().Warnw("failed to register GORM OpenTelemetry plugin, continuing without database tracing", "err", err)
		}

		// Register Redis OpenTelemetry plugin after tracer provider is set
		if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
			log.Sugar().Warnw("failed to register Redis OpenTelemetry plugin, continuing without Redis tracing", "err", err)
		}
	}

	reportOrphans(cmd.Context(), do.MustInvoke[service.ProjectService](inj), log)

	// init gin
	gin.SetMode(cfg.App.Env)

	engine := router.NewRouter(router.RouterDeps{
		Config:          cfg,
		Log:             log,
		ProjectHandler:  do.MustInvoke[*handler.ProjectHandler](inj),
		DeliveryHandler: do.MustInvoke[*handler.DeliveryHandler](inj),
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: engine, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Sugar().Infow("starting http server", "addr", addr)
		log.Sugar().Infow("swagger url", "url", addr+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		log.Sugar().Errorw("listen error", "err", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Sugar().Info("server exited")
	return nil
}

type orphanFinder interface {
	FindOrphans(ctx context.Context) ([]*model.Project, error)
}

// reportOrphans warns about projects left without a file row. They answer 404 until deleted.
func reportOrphans(ctx context.Context, svc orphanFinder, log *zap.Logger) {
	orphans, err := svc.FindOrphans(ctx)
	if err != nil {
		log.Sugar().Warnw("failed to check for orphan projects", "err", err)
		return
	}
	for _, p := range orphans {
		log.Sugar().Warnw("orphan project without file", "slug", p.Slug, "name", p.Name, "uploadedAt", p.UploadedAt)
	}
}
