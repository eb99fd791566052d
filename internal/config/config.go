package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"portfolioStatsBot/internal/analytics"
)

type Config struct {
	TelegramToken    string
	WebhookPublicURL string
	OpenAIKey        string // optional; commentary is off without it
	Port             string
	DBPath           string
	Benchmark        string
	LogLevel         string
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func requireEnv(k string) (string, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return "", fmt.Errorf("missing env %s", k)
	}
	return v, nil
}

// loadDotEnv merges path into the environment; variables already set win.
// A missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads the bot configuration from .env and the environment.
func Load() (Config, error) {
	return load(".env")
}

func load(dotenv string) (Config, error) {
	if err := loadDotEnv(dotenv); err != nil {
		return Config{}, err
	}
	token, tokenErr := requireEnv("TELEGRAM_BOT_TOKEN")
	webhook, webhookErr := requireEnv("WEBHOOK_PUBLIC_URL")
	if err := errors.Join(tokenErr, webhookErr); err != nil {
		return Config{}, err
	}
	cfg := fromEnv()
	cfg.TelegramToken = token
	cfg.WebhookPublicURL = webhook
	cfg.OpenAIKey = envOr("OPENAI_API_KEY", "")
	cfg.Port = envOr("PORT", "9095")
	cfg.DBPath = envOr("DB_PATH", "/app/data/usage.db")
	return cfg, nil
}

// LoadCLI reads only the settings the command line tool needs; it never fails.
func LoadCLI() Config {
	_ = loadDotEnv(".env")
	return fromEnv()
}

func fromEnv() Config {
	return Config{
		Benchmark: strings.ToUpper(envOr("BENCHMARK_SYMBOL", analytics.DefaultBenchmark)),
		LogLevel:  envOr("LOG_LEVEL", "info"),
	}
}
