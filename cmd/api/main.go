package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Madhupal841998/book-rental/internal/catalog"
	"github.com/Madhupal841998/book-rental/internal/config"
	"github.com/Madhupal841998/book-rental/internal/database"
	"github.com/Madhupal841998/book-rental/internal/handlers"
	"github.com/Madhupal841998/book-rental/internal/imagestore"
	"github.com/Madhupal841998/book-rental/internal/monitoring"
	"github.com/Madhupal841998/book-rental/internal/store"
	"github.com/Madhupal841998/book-rental/internal/utils"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := database.CreateTables(db); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}

	images, err := imagestore.New(cfg.UploadsPath, cfg.MaxImageBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("uploads directory setup failed")
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("token manager setup failed")
	}

	bookStore := store.NewBooks(db)
	userStore := store.NewUsers(db)

	router := handlers.NewRouter(handlers.Deps{
		Users:         catalog.NewUsers(userStore, utils.BcryptHasher{}),
		Books:         catalog.NewBooks(bookStore, images),
		Rentals:       catalog.NewRentals(bookStore, userStore),
		Images:        images,
		Tokens:        tokens,
		Monitoring:    monitoring.NewService(db, images.Root()),
		MonitoringKey: cfg.MonitoringKey,
	})

	handler := cors.AllowAll().Handler(router)

	log.Info().Str("port", cfg.Port).Msg("book rental API listening")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
