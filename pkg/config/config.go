package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	DatabaseURL           string
	JWTSecret             string
	AllowedOrigins        []string
	FirebaseCredentials   string
	GoogleProjectID       string
	GoogleCredentials     string
	ResultsTopic          string
	RedisURL              string
	ResultWorkers         int
	MatchRetention        time.Duration
	MatchEvictionInterval time.Duration
	GameConfigPath        string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:                  getEnv("PORT", "8080"),
		DatabaseURL:           getEnv("DATABASE_URL", "sqlite://connect4.db"),
		JWTSecret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AllowedOrigins:        splitList(getEnv("ALLOWED_ORIGINS", "*")),
		FirebaseCredentials:   getEnv("FIREBASE_CREDENTIALS", ""),
		GoogleProjectID:       getEnv("GOOGLE_PROJECT_ID", ""),
		GoogleCredentials:     getEnv("GOOGLE_CREDENTIALS", ""),
		ResultsTopic:          topicName(getEnv("RESULTS_TOPIC", "match-results")),
		RedisURL:              getEnv("REDIS_URL", ""),
		ResultWorkers:         getInt("RESULT_WORKERS", 3),
		MatchRetention:        getDuration("MATCH_RETENTION", 0),
		MatchEvictionInterval: getDuration("MATCH_EVICTION_INTERVAL", 0),
		GameConfigPath:        getEnv("GAME_CONFIG_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// topicName accepts either a short topic id or a full projects/x/topics/y name.
func topicName(s string) string {
	if parts := strings.Split(s, "/"); len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return s
}
