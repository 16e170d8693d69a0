package main

import (
	"fmt"

	"github.com/samber/do"
	"github.com/slyt3/pagedrop/internal/bootstrap"
	"github.com/slyt3/pagedrop/internal/config"
	dbpkg "github.com/slyt3/pagedrop/internal/infra/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "migrate",
	Long:  `create or update the projects and files tables`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inj := bootstrap.BuildContainer()
		cfg, err := do.Invoke[*config.Config](inj)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err := do.Invoke[*zap.Logger](inj)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		// open without the provider's auto migrate so failures are reported here
		cfg.Database.AutoMigrate = false
		d, err := dbpkg.New(cfg, log)
		if err != nil {
			return err
		}
		if sqlDB, err := d.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := dbpkg.Migrate(d); err != nil {
			log.Sugar().Errorw("migrate", "err", err)
			return err
		}
		log.Sugar().Infow("schema up to date", "driver", cfg.Database.Driver)
		return nil
	},
}

func init() {
	rootCMD.AddCommand(migrateCMD)
}
