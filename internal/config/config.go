package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

var (
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	ErrLoadingDotenv = errors.New("failed to load .env file")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the application configuration, read from the environment.
type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"zenblog"`

	HTTP    HTTP    `envPrefix:"HTTP_"`
	Redis   Redis   `envPrefix:"REDIS_"`
	Usage   Usage   `envPrefix:"USAGE_"`
	Backend Backend `envPrefix:"BACKEND_"`
	Content Content `envPrefix:"CONTENT_"`

	// APIBaseURL is where the site reaches the account endpoints.
	// Empty means the backend mounted in this process.
	APIBaseURL    string `env:"API_BASE_URL"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`
	Metrics       bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

type HTTP struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Redis is optional: an empty URL keeps anonymous counters in memory.
type Redis struct {
	URL            string        `env:"URL"`
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

type Usage struct {
	// TimeZone decides where a usage day ends.
	TimeZone string `env:"TIMEZONE" envDefault:"UTC"`
}

type Backend struct {
	DemoEmail    string              `env:"DEMO_EMAIL" envDefault:"demo@zenblog.dev"`
	DemoPassword string              `env:"DEMO_PASSWORD" envDefault:"zen-demo"`
	DemoTier     subscription.TierID `env:"DEMO_TIER" envDefault:"free"`
	SessionTTL   time.Duration       `env:"SESSION_TTL" envDefault:"168h"`
	LoginRate    float64             `env:"LOGIN_RATE" envDefault:"0.5"`
	LoginBurst   int                 `env:"LOGIN_BURST" envDefault:"5"`
}

type Content struct {
	// Dir reads posts from disk instead of the embedded set.
	Dir             string `env:"DIR"`
	RenderCacheSize int    `env:"RENDER_CACHE_SIZE" envDefault:"64"`
}

// Location returns the usage time zone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Usage.TimeZone)
}

// Validate checks values env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("USAGE_TIMEZONE: %w", err))
	}
	if !c.Backend.DemoTier.Valid() {
		errs = append(errs, fmt.Errorf("BACKEND_DEMO_TIER: unknown tier %q", c.Backend.DemoTier))
	}
	if c.Backend.LoginRate <= 0 || c.Backend.LoginBurst <= 0 {
		errs = append(errs, errors.New("BACKEND_LOGIN_RATE and BACKEND_LOGIN_BURST must be positive"))
	}
	if c.Redis.URL != "" && c.Redis.RetryAttempts < 1 {
		errs = append(errs, errors.New("REDIS_RETRY_ATTEMPTS must be at least 1"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Option adjusts how Load reads configuration.
type Option func(*loader)

type loader struct {
	dotenv  []string
	environ map[string]string
}

// WithDotenv loads the given files before parsing. Missing files are
// skipped. Defaults to ".env".
func WithDotenv(files ...string) Option {
	return func(l *loader) { l.dotenv = files }
}

// WithEnviron parses vars instead of the process environment.
func WithEnviron(vars map[string]string) Option {
	return func(l *loader) { l.environ = vars }
}

// Load reads and validates the configuration.
func Load(opts ...Option) (Config, error) {
	l := &loader{dotenv: []string{".env"}}
	for _, opt := range opts {
		opt(l)
	}

	for _, f := range l.dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrLoadingDotenv, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: l.environ}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(opts ...Option) Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
