package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DefaultGenerationTimeout ограничивает один запрос к модели.
const DefaultGenerationTimeout = 60 * time.Second

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`

	// Generation settings
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"` // ключ по умолчанию, если у пользователя нет своего
	GeminiBaseURL     string        `env:"GEMINI_BASE_URL"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT"`
	MaxOutputTokens   int           `env:"MAX_OUTPUT_TOKENS"` // 0 без ограничения

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.GeminiAPIKey, "gemini-key", cfg.GeminiAPIKey, "API key used when the user has none")
	flag.StringVar(&cfg.GeminiBaseURL, "gemini-url", cfg.GeminiBaseURL, "base URL of the Generative Language API")
	flag.DurationVar(&cfg.GenerationTimeout, "gen-timeout", cfg.GenerationTimeout, "timeout of one model request")
	flag.IntVar(&cfg.MaxOutputTokens, "max-tokens", cfg.MaxOutputTokens, "maxOutputTokens for text generation, 0 to omit")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the GophChat server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = DefaultGenerationTimeout
	}
	if cfg.MaxOutputTokens < 0 {
		cfg.MaxOutputTokens = 0
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.TokenFile == "" {
		home, _ := os.UserHomeDir()
		cfg.TokenFile = filepath.Join(home, ".gophchat_token")
	}

	return cfg
}
