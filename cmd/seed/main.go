// Command seed loads the system game catalog into the database.
package main

import (
	"context"
	"os"

	"github.com/icco/gutil/logging"
	"github.com/icco/recall"
	"github.com/icco/recall/store"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var opts struct {
	DatabaseURL string         `long:"database-url" env:"DATABASE_URL" description:"Postgres connection string"`
	SQLitePath  string         `long:"sqlite" env:"SQLITE_PATH" default:"recall.db" description:"SQLite database path, used when no database URL is set"`
	Filename    flags.Filename `short:"f" long:"file" description:"JSON file of games to seed (defaults to the built in catalog)"`
}

func main() {
	log := logging.Must(logging.NewLogger(recall.Service))

	if err := godotenv.Load(); err != nil {
		log.Debugw("no .env file found", "error", err.Error())
	}

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	games, err := loadCatalog(string(opts.Filename))
	if err != nil {
		log.Fatalw("could not load catalog", "file", opts.Filename, zap.Error(err))
	}

	db, err := store.Open(store.Config{
		DatabaseURL: opts.DatabaseURL,
		SQLitePath:  opts.SQLitePath,
		Logger:      log.Desugar(),
	})
	if err != nil {
		log.Fatalw("could not get db", zap.Error(err))
	}

	n, err := seedGames(context.Background(), store.New(db), games, log)
	if err != nil {
		log.Fatalw("seeding failed", "inserted", n, zap.Error(err))
	}
	log.Infow("seeding complete", "inserted", n, "total", len(games))
}
