package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string
	JWTSecret  string
	JWTTTL     time.Duration

	ImagesDir string
	AudiosDir string

	LogFilePath string

	CacheRegionSize int
	CacheTTL        time.Duration

	RateLimitPerSecond int
}

var GlobalConfig *Config

func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cacheSize, _ := strconv.Atoi(getEnv("CACHE_REGION_SIZE", "512"))
	cacheTTLMin, _ := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "30"))
	jwtTTLHours, _ := strconv.Atoi(getEnv("JWT_TTL_HOURS", "168"))
	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT_PER_SECOND", "100"))

	GlobalConfig = &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "alkify"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "default-jwt-secret-change-in-production"),
		JWTTTL:     time.Duration(jwtTTLHours) * time.Hour,

		ImagesDir: getEnv("IMAGES_DIR", "uploads/images"),
		AudiosDir: getEnv("AUDIOS_DIR", "uploads/audios"),

		LogFilePath: getEnv("LOG_FILE", ""),

		CacheRegionSize: cacheSize,
		CacheTTL:        time.Duration(cacheTTLMin) * time.Minute,

		RateLimitPerSecond: rateLimit,
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
