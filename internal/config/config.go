package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	OpenAIAPIKey          string
	TranslationModel      string
	ChunkTokenBudget      int
	MaxConcurrentRequests int
	RequestTimeoutSeconds int
	LogLevel              string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		TranslationModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ChunkTokenBudget:      getEnvInt("CHUNK_TOKEN_BUDGET", 1000),
		MaxConcurrentRequests: getEnvInt("MAX_CONCURRENT_REQUESTS", 4),
		RequestTimeoutSeconds: getEnvInt("REQUEST_TIMEOUT_SECONDS", 120),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
