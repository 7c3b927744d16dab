package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbattle/apps/go-server/internal/config"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/database"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/httpserver"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/store"
	"github.com/robalobadob/wordbattle/apps/go-server/internal/words"
)

func main() {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	dict := words.Default()

	db, err := database.OpenMigrated(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()

	st := store.NewSQLStore(db, dict.IsValid, log.Logger)
	srv := httpserver.New(httpserver.Deps{
		Config:     cfg,
		Store:      st,
		DB:         db,
		Dictionary: dict,
	})

	log.Info().Str("port", cfg.Port).Int("words", dict.Len()).Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
