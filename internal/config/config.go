package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centralises every runtime setting so the rest of the codebase can remain deterministic
// and easy to test. All fields can be overridden using environment variables.
type Config struct {
	AppName  string          `env:"APP_NAME" envDefault:"traffic-pulse-api"`
	Env      string          `env:"APP_ENV" envDefault:"development"`
	LogLevel string          `env:"LOG_LEVEL" envDefault:"info"`
	HTTP     HTTPConfig      `envPrefix:"HTTP_"`
	Auth     AuthConfig      `envPrefix:"AUTH_"`
	Upload   UploadConfig    `envPrefix:"UPLOAD_"`
	Analysis AnalysisConfig  `envPrefix:"ANALYSIS_"`
	Gen      GeneratorConfig `envPrefix:"GENERATOR_"`
	Store    StoreConfig     `envPrefix:"STORE_"`
	Map      MapConfig       `envPrefix:"MAP_"`
}

// HTTPConfig controls the HTTP server behaviour.
type HTTPConfig struct {
	Address      string        `env:"ADDRESS" envDefault:":5000"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
}

// AuthConfig holds the demo login settings. The secret has a hardcoded
// fallback because this is a mock auth layer, not a security boundary.
type AuthConfig struct {
	Secret   string        `env:"SECRET" envDefault:"traffic-pulse-demo-secret"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
}

// UploadConfig controls where analyzed videos are stored.
type UploadConfig struct {
	Dir       string `env:"DIR" envDefault:"uploads/videos"`
	MaxSizeMB int64  `env:"MAX_SIZE_MB" envDefault:"500"`
}

// AnalysisConfig selects between the embedded mock engine and a remote
// analyzer, and fixes the failure policy when the remote call fails.
type AnalysisConfig struct {
	// RemoteURL points at an external analyze endpoint. Empty means the
	// embedded engine handles uploads locally.
	RemoteURL string        `env:"REMOTE_URL" envDefault:""`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
	// Policy is "strict" (surface remote errors) or "degraded" (substitute
	// an embedded-engine result when the remote call fails).
	Policy string `env:"POLICY" envDefault:"strict"`
	Seed   int64  `env:"SEED" envDefault:"0"`
}

// GeneratorConfig tunes the synthetic live-detection feed.
type GeneratorConfig struct {
	Enabled         bool          `env:"ENABLED" envDefault:"true"`
	MinInterval     time.Duration `env:"MIN_INTERVAL" envDefault:"20s"`
	MaxInterval     time.Duration `env:"MAX_INTERVAL" envDefault:"60s"`
	FireProbability float64       `env:"FIRE_PROBABILITY" envDefault:"0.35"`
	Seed            int64         `env:"SEED" envDefault:"0"`
}

// StoreConfig controls incident store initialisation.
type StoreConfig struct {
	// SeedDelay keeps the loading spinner visible before fixtures land.
	SeedDelay time.Duration `env:"SEED_DELAY" envDefault:"1s"`
}

// MapConfig is handed to the frontend verbatim via /api/config.
type MapConfig struct {
	Provider string `env:"PROVIDER" envDefault:"kakao"`
	APIKey   string `env:"API_KEY" envDefault:"demo-map-key"`
}

// Load reads configuration from the environment, applying defaults defined above.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
