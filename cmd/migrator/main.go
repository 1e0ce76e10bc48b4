package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	appMigrations "github.com/yigit/campusconnect/internal/app/migrations"
	"github.com/yigit/campusconnect/internal/config"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the config file")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command := args[0]

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.ConfigureFromStrings(cfg.Logging.Level, cfg.Logging.Format)
	lgr := logger.Component("migrator")

	db, err := sql.Open("postgres", cfg.GetPostgresConnectionString())
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		lgr.Fatal().Err(err).Msg("Failed to reach database")
	}

	migrator, err := appMigrations.NewMigrator(db, lgr)
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to create migrator")
	}

	switch command {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "status":
		err = migrator.Status(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		lgr.Fatal().Err(err).Str("command", command).Msg("Migration command failed")
	}
	lgr.Info().Str("command", command).Msg("Migration command finished")
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrator [-config path] <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up      apply all pending migrations")
	fmt.Fprintln(os.Stderr, "  down    roll back the latest migration")
	fmt.Fprintln(os.Stderr, "  status  print the state of every migration")
}
