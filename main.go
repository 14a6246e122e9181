package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lot-backend/controller"
	"lot-backend/dao"
	"lot-backend/db"
	"lot-backend/pkg/apperror"
	"lot-backend/pkg/config"
	"lot-backend/pkg/logger"
	"lot-backend/usecase"
)

type app struct {
	configFile string

	conn   *sql.DB
	logger *zap.Logger
	items  *usecase.ItemUsecase
	tags   *usecase.TagUsecase
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:               "lot",
		Short:             "Track depreciating items and their tags",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.start,
		PersistentPostRun: func(*cobra.Command, []string) { a.stop() },
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default ./config.yaml)")

	root.AddCommand(
		controller.NewHealthController(a.ping).Command(),
		controller.NewItemController(func() *usecase.ItemUsecase { return a.items }).Command(),
		controller.NewTagController(func() *usecase.TagUsecase { return a.tags }).Command(),
	)

	err := root.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		a.stop()
	}
	os.Exit(controller.ExitCode(err))
}

func (a *app) start(cmd *cobra.Command, _ []string) error {
	// 1. Config & Logger
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	a.logger, err = logger.New(cfg.Log)
	if err != nil {
		return err
	}

	// 2. DB Connection
	conn, dialect, err := db.Open(cmd.Context(), cfg.Database)
	if err != nil {
		if apperror.Is(err, apperror.Config) {
			return err
		}
		a.logger.Error("failed to connect to database", zap.Error(err))
		return apperror.New(apperror.Database, "database is unreachable")
	}
	a.conn = conn
	a.logger.Debug("connected to database", zap.String("driver", dialect.Name()))

	if cfg.Database.AutoSchema {
		if err := db.EnsureSchema(cmd.Context(), conn, dialect); err != nil {
			return err
		}
	}

	// 3. Dependency Injection
	itemRepo := dao.NewItemRepository(conn, dialect, a.logger)
	tagRepo := dao.NewTagRepository(conn, dialect, a.logger)
	a.items = usecase.NewItemUsecase(itemRepo, a.logger)
	a.tags = usecase.NewTagUsecase(tagRepo, a.logger)
	return nil
}

func (a *app) ping(ctx context.Context) error {
	return a.conn.PingContext(ctx)
}

func (a *app) stop() {
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
		a.logger = nil
	}
}
