package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/basabecode/tupijama.com-sub001/pkg/config"
	"github.com/basabecode/tupijama.com-sub001/pkg/db"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
	"github.com/basabecode/tupijama.com-sub001/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	var (
		command = flag.String("cmd", "up", "goose command: up, down, status, version, up-to, down-to, create")
		dir     = flag.String("dir", migrate.DefaultDir, "migrations directory")
		name    = flag.String("name", "", "migration name (create only)")
		version = flag.String("version", "", "target version (up-to / down-to)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *command, *dir, *name, *version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command, dir, name, version string) error {
	if command == "create" {
		if name == "" {
			return fmt.Errorf("-name is required for create")
		}
		path, err := migrate.CreateSQLMigration(dir, name)
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New(logger.Options{
		ServiceName: "tupijama-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}

	switch command {
	case "up-to", "down-to":
		if version == "" {
			return fmt.Errorf("-version is required for %s", command)
		}
		return migrate.ToVersion(ctx, sqlDB, dir, version)
	default:
		return migrate.Run(ctx, sqlDB, dir, command)
	}
}
