// Package config loads engine configuration from a YAML file with an
// environment overlay, so deployments can tweak a run without editing the
// file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can say "250ms" or "2s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds every host-level knob. The simulation core reads none of
// this directly; main wires it in.
type Config struct {
	Seed   int64   `yaml:"seed"`   // 0 = random run
	Depth  int     `yaml:"depth"`  // generated levels below the galaxy root
	FanOut float64 `yaml:"fan_out"`

	TickInterval Duration `yaml:"tick_interval"`
	DeltaTime    float64  `yaml:"delta_time"`
	Speed        float64  `yaml:"speed"`
	ReportEvery  uint64   `yaml:"report_every"`

	DBPath        string `yaml:"db_path"`
	SnapshotEvery uint64 `yaml:"snapshot_every"` // ticks between saves, 0 = off

	APIPort        int      `yaml:"api_port"`
	AdminKey       string   `yaml:"admin_key"` // empty = admin POSTs disabled
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Seed:           0,
		Depth:          2,
		FanOut:         0.5,
		TickInterval:   Duration(time.Second),
		DeltaTime:      1.0,
		Speed:          1.0,
		ReportEvery:    60,
		DBPath:         "data/macroverse.db",
		SnapshotEvery:  600,
		APIPort:        8080,
		AllowedOrigins: []string{"*"},
	}
}

// Load reads the YAML file at path (optional) and applies environment
// overrides. A missing .env file is fine; a present but broken config file
// is not.
func Load(path string) (*Config, error) {
	// Best effort: local development drops secrets in .env.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()

	if cfg.DeltaTime <= 0 {
		return nil, fmt.Errorf("delta_time must be positive, got %v", cfg.DeltaTime)
	}
	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("tick_interval must be positive, got %v", cfg.TickInterval)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MACROVERSE_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = seed
		}
	}
	if v := os.Getenv("MACROVERSE_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("MACROVERSE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.APIPort = port
		}
	}
	if v := os.Getenv("MACROVERSE_ADMIN_KEY"); v != "" {
		c.AdminKey = v
	}
}
