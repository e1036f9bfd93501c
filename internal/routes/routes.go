package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alkmanistik/alkify-music-api/internal/config"
	"github.com/alkmanistik/alkify-music-api/internal/handlers"
	"github.com/alkmanistik/alkify-music-api/internal/logger"
	"github.com/alkmanistik/alkify-music-api/internal/middleware"
	"github.com/alkmanistik/alkify-music-api/internal/repository"
)

func SetupRoutes(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	artistHandler *handlers.ArtistHandler,
	albumHandler *handlers.AlbumHandler,
	trackHandler *handlers.TrackHandler,
	fileHandler *handlers.FileHandler,
	userRepo repository.UserRepository,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(corsConfig()))

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	rateLimiter := middleware.NewRateLimiter(config.GlobalConfig.RateLimitPerSecond)
	router.Use(rateLimiter.Middleware())

	authRequired := middleware.JWTMiddleware(userRepo)
	adminRequired := middleware.AdminMiddleware()

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/sign-up", authHandler.SignUp)
			auth.POST("/sign-in", authHandler.SignIn)
		}

		users := api.Group("/users")
		{
			users.GET("/:id", userHandler.GetByID)

			users.GET("", authRequired, adminRequired, userHandler.GetAll)
			users.GET("/email/:email", authRequired, userHandler.GetByEmail)
			users.PUT("/:id", authRequired, userHandler.Update)
			users.DELETE("/:id", authRequired, userHandler.Delete)
			users.POST("/:id/admin", authRequired, adminRequired, userHandler.GrantAdmin)
		}

		artists := api.Group("/artists")
		{
			artists.GET("", artistHandler.GetAll)
			artists.GET("/search", artistHandler.Search)
			artists.GET("/:id", artistHandler.GetByID)
			artists.GET("/user/:userId", artistHandler.GetByUser)
			artists.GET("/subscribers/:artistId", artistHandler.GetSubscribers)
			artists.GET("/subscribers-count/:artistId", artistHandler.GetSubscriberCount)

			artists.POST("", authRequired, artistHandler.Create)
			artists.PUT("/:id", authRequired, artistHandler.Update)
			artists.DELETE("/:id", authRequired, artistHandler.Delete)
			artists.POST("/subscribe-artist/:artistId", authRequired, artistHandler.Subscribe)
			artists.POST("/unsubscribe-artist/:artistId", authRequired, artistHandler.Unsubscribe)
			artists.GET("/check-subscription/:artistId", authRequired, artistHandler.CheckSubscription)
			artists.GET("/subscriptions", authRequired, artistHandler.GetSubscriptions)
		}

		albums := api.Group("/albums")
		{
			albums.GET("", albumHandler.GetAll)
			albums.GET("/search", albumHandler.Search)
			albums.GET("/:albumId", albumHandler.GetByID)
			albums.GET("/artist/:artistId", albumHandler.GetByArtist)

			albums.POST("/artist/:artistId", authRequired, albumHandler.Create)
			albums.PUT("/:albumId", authRequired, albumHandler.Update)
			albums.DELETE("/:albumId", authRequired, albumHandler.Delete)
			albums.POST("/:albumId/artists/:artistId", authRequired, albumHandler.AddArtist)
			albums.DELETE("/:albumId/artists/:artistId", authRequired, albumHandler.RemoveArtist)
		}

		tracks := api.Group("/tracks")
		{
			tracks.GET("", trackHandler.GetAll)
			tracks.GET("/search", trackHandler.Search)
			tracks.GET("/:trackId", trackHandler.GetByID)
			tracks.GET("/album/:albumId", trackHandler.GetByAlbum)

			tracks.POST("/album/:albumId", authRequired, trackHandler.Create)
			tracks.PUT("/:trackId", authRequired, trackHandler.Update)
			tracks.DELETE("/:trackId", authRequired, trackHandler.Delete)
			tracks.POST("/:trackId/artists/:artistId", authRequired, trackHandler.AddArtist)
			tracks.DELETE("/:trackId/artists/:artistId", authRequired, trackHandler.RemoveArtist)

			tracks.GET("/liked", authRequired, trackHandler.GetLiked)
			tracks.GET("/check-like/:trackId", authRequired, trackHandler.CheckLike)
			tracks.POST("/like-track/:trackId", authRequired, trackHandler.Like)
			tracks.POST("/unlike-track/:trackId", authRequired, trackHandler.Unlike)
		}

		files := api.Group("/files")
		{
			files.GET("/images/:name", fileHandler.GetImage)
			files.GET("/audios/:name", fileHandler.GetAudio)

			files.POST("/images", authRequired, adminRequired, fileHandler.UploadImage)
			files.POST("/audios", authRequired, adminRequired, fileHandler.UploadAudio)
			files.DELETE("/images/:name", authRequired, adminRequired, fileHandler.DeleteImage)
			files.DELETE("/audios/:name", authRequired, adminRequired, fileHandler.DeleteAudio)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Server is running",
		})
	})

	return router
}

func corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	frontendURL := os.Getenv("CORS_ORIGIN")
	if os.Getenv("ENV") == "production" {
		if frontendURL == "" {
			logger.Fatal(logger.EventStartup, "CORS_ORIGIN is not set in production", nil)
		}
		cfg.AllowOrigins = []string{frontendURL}
		return cfg
	}

	allowed := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL != "" {
		allowed = append(allowed, frontendURL)
	}
	cfg.AllowOriginFunc = func(origin string) bool {
		for _, a := range allowed {
			if origin == a {
				return true
			}
		}
		return strings.HasPrefix(origin, "http://192.168.") || strings.HasPrefix(origin, "http://10.")
	}
	return cfg
}
