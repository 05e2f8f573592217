package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

var (
	ErrUnknownCatalogSource = errors.New("unknown catalog source")
	ErrPostgresDSNRequired  = errors.New("PG_DSN is required for the postgres catalog source")
)

type Config struct {
	App      App
	HTTP     HTTP
	Catalog  Catalog
	Postgres Postgres
	Redis    Redis
	Cache    Cache
}

type App struct {
	Name     string     `env:"APP_NAME" envDefault:"shaftmatch"`
	Version  string     `env:"APP_VERSION" envDefault:"dev"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	NoColor  bool       `env:"LOG_NO_COLOR" envDefault:"false"`
}

type HTTP struct {
	ListenAddress        string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	MetricsListenAddress string        `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadHeaderTimeout    time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	AllowedOrigins       []string      `env:"HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	LogFieldMaxLen       int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096"`
	MaskSensitiveData    bool          `env:"HTTP_MASK_SENSITIVE_DATA" envDefault:"true"`
}

type Catalog struct {
	Source string `env:"CATALOG_SOURCE" envDefault:"file"`
	Path   string `env:"CATALOG_PATH" envDefault:"data/shafts.json"`
}

// Cache configures the match memo and its warm-up. With Redis enabled the
// warm-up is distributed through the WarmUpQueue asynq queue.
type Cache struct {
	TTL                   time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	CleanupInterval       time.Duration `env:"CACHE_CLEANUP_INTERVAL" envDefault:"30m"`
	WarmUp                bool          `env:"CACHE_WARM_UP" envDefault:"true"`
	WarmUpRequestInterval time.Duration `env:"CACHE_WARM_UP_REQUEST_INTERVAL" envDefault:"0s"`
	RefreshInterval       time.Duration `env:"CACHE_REFRESH_INTERVAL" envDefault:"0s"`
	WarmUpQueue           string        `env:"CACHE_WARM_UP_QUEUE" envDefault:"shafts"`
	WarmUpConcurrency     int           `env:"CACHE_WARM_UP_CONCURRENCY" envDefault:"2"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, fmt.Errorf("config.validate: %w", err)
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.Catalog.Source {
	case CatalogSourceFile:
	case CatalogSourcePostgres:
		if c.Postgres.DSN == "" {
			return ErrPostgresDSNRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCatalogSource, c.Catalog.Source)
	}

	return nil
}
