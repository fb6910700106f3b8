package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config es toda la configuración del proceso, leída de env.
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"petbot"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	DBDSN       string `env:"DB_DSN"`
	SQLitePath  string `env:"DB_SQLITE_PATH" envDefault:"tmp/petbot.sqlite"`

	DecaySchedule string `env:"DECAY_SCHEDULE" envDefault:"0 0 * * * *"`
	DecayStep     int    `env:"DECAY_STEP" envDefault:"5"`

	FeedMin int `env:"FEED_MIN" envDefault:"5"`
	FeedMax int `env:"FEED_MAX" envDefault:"15"`
	PlayMin int `env:"PLAY_MIN" envDefault:"5"`
	PlayMax int `env:"PLAY_MAX" envDefault:"15"`

	AssetsDir   string `env:"ASSETS_DIR" envDefault:"assets"`
	CatalogPath string `env:"CATALOG_PATH"`

	BMBaseURL      string        `env:"BM_BASE_URL"`
	BMAccessToken  string        `env:"BM_ACCESS_TOKEN"`
	SendMaxRetries int           `env:"SEND_MAX_RETRIES" envDefault:"0"`
	SendTimeout    time.Duration `env:"SEND_TIMEOUT" envDefault:"10s"`

	// Vacío = modo dev (no se valida la firma del webhook).
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// Vacío = tracing deshabilitado.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load lee los .env indicados (si existen) y después el entorno real,
// que tiene prioridad.
func Load(envFiles ...string) (Config, error) {
	return load(envFiles, environ())
}

func load(envFiles []string, osEnv map[string]string) (Config, error) {
	merged := map[string]string{}
	for _, f := range envFiles {
		vals, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			merged[k] = v
		}
	}
	for k, v := range osEnv {
		merged[k] = v
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: merged}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: PORT %q is not a number", ErrInvalidConfig, c.Port)
	}
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("%w: STORE_DRIVER=postgres requires DB_DSN", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported STORE_DRIVER %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.DecayStep <= 0 {
		return fmt.Errorf("%w: DECAY_STEP must be positive", ErrInvalidConfig)
	}
	if c.FeedMin < 0 || c.FeedMax < c.FeedMin {
		return fmt.Errorf("%w: FEED_MIN/FEED_MAX out of order", ErrInvalidConfig)
	}
	if c.PlayMin < 0 || c.PlayMax < c.PlayMin {
		return fmt.Errorf("%w: PLAY_MIN/PLAY_MAX out of order", ErrInvalidConfig)
	}
	if c.SendMaxRetries < 0 {
		return fmt.Errorf("%w: SEND_MAX_RETRIES must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// Addr es la dirección de escucha del server HTTP.
func (c Config) Addr() string {
	return ":" + c.Port
}

func environ() map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			out[k] = v
		}
	}
	return out
}
