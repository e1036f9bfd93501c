package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alkmanistik/alkify-music-api/internal/cache"
	"github.com/alkmanistik/alkify-music-api/internal/config"
	"github.com/alkmanistik/alkify-music-api/internal/database"
	"github.com/alkmanistik/alkify-music-api/internal/handlers"
	"github.com/alkmanistik/alkify-music-api/internal/logger"
	"github.com/alkmanistik/alkify-music-api/internal/repository"
	"github.com/alkmanistik/alkify-music-api/internal/routes"
	"github.com/alkmanistik/alkify-music-api/internal/services"
	"github.com/alkmanistik/alkify-music-api/internal/storage"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		logger.Init(logger.Config{ServiceName: "alkify-music-api"})
		logger.Fatal(logger.EventStartup, "Failed to load config", logger.Fields("error", err.Error()))
	}
	cfg := config.GlobalConfig

	logger.Init(logger.Config{ServiceName: "alkify-music-api", LogFilePath: cfg.LogFilePath})

	db, err := database.Connect()
	if err != nil {
		logger.Fatal(logger.EventDBConnection, "Failed to connect to database", logger.Fields("error", err.Error()))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal(logger.EventDBConnection, "Failed to run migrations", logger.Fields("error", err.Error()))
	}

	cacheStore := cache.NewStore(cfg.CacheRegionSize, cfg.CacheTTL)
	fileStore := storage.NewStore(cfg.ImagesDir, cfg.AudiosDir)

	userRepo := repository.NewUserRepository(db)
	artistRepo := repository.NewArtistRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	trackRepo := repository.NewTrackRepository(db)

	trackService := services.NewTrackService(trackRepo, albumRepo, artistRepo, fileStore, cacheStore)
	albumService := services.NewAlbumService(albumRepo, artistRepo, trackService, fileStore, cacheStore)
	artistService := services.NewArtistService(artistRepo, userRepo, albumService, trackService, fileStore, cacheStore)
	userService := services.NewUserService(userRepo, artistService, cacheStore)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	artistHandler := handlers.NewArtistHandler(artistService)
	albumHandler := handlers.NewAlbumHandler(albumService)
	trackHandler := handlers.NewTrackHandler(trackService)
	fileHandler := handlers.NewFileHandler(fileStore)

	router := routes.SetupRoutes(
		authHandler,
		userHandler,
		artistHandler,
		albumHandler,
		trackHandler,
		fileHandler,
		userRepo,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.ServerPort
	}
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info(logger.EventStartup, "Server started", logger.Fields("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(logger.EventStartup, "Server error", logger.Fields("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(logger.EventShutdown, "Shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error(logger.EventShutdown, "Forced shutdown", logger.Fields("error", err.Error()))
	}

	logger.Info(logger.EventShutdown, "Server exited", nil)
}
