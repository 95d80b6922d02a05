package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	AppName    = "Local Mind"
	AppID      = "com.localmind.desktop"
	AppVersion = "0.1.0"
)

// Config holds the desktop shell settings. Every field can be overridden
// from the environment.
type Config struct {
	AppID  string  `env:"LOCALMIND_APP_ID" envDefault:"com.localmind.desktop"`
	Title  string  `env:"LOCALMIND_TITLE"  envDefault:"Local Mind"`
	Width  float32 `env:"LOCALMIND_WIDTH"  envDefault:"800"`
	Height float32 `env:"LOCALMIND_HEIGHT" envDefault:"600"`

	LogLevel string `env:"LOCALMIND_LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOCALMIND_LOG_JSON"  envDefault:"false"`

	// GreetBackend is the label the greet command reports back to the frontend.
	GreetBackend string `env:"LOCALMIND_GREET_BACKEND" envDefault:"Rust"`

	// FSScope lists the directories the fs plugin may touch. Empty denies all.
	FSScope []string `env:"LOCALMIND_FS_SCOPE" envSeparator:","`

	ShutdownTimeout time.Duration `env:"LOCALMIND_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Config{}, fmt.Errorf("invalid window size %.0fx%.0f", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

// Default returns the configuration built from the envDefault tags alone,
// ignoring the process environment.
func Default() Config {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}
