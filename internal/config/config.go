// Package config loads the kabudash YAML configuration and applies
// environment variable overrides.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the kabudash dashboard.
type Config struct {
	Storage  Storage             `yaml:"storage"`
	Server   Server              `yaml:"server"`
	Provider Provider            `yaml:"provider"`
	News     News                `yaml:"news"`
	Dividend Dividend            `yaml:"dividend"`
	Sheet    Sheet               `yaml:"sheet"`
	Refresh  Refresh             `yaml:"refresh"`
	Aliases  map[string][]string `yaml:"aliases"` // manual overrides by ticker
	Logging  Logging             `yaml:"logging"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Provider selects and configures the price/fundamentals source.
type Provider struct {
	// Kind is "yahoo" (default) or "alpaca".
	Kind string `yaml:"kind"`

	// CacheTTLSeconds controls the in-memory provider cache. 0 disables it.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	Yahoo  Yahoo  `yaml:"yahoo"`
	Alpaca Alpaca `yaml:"alpaca"`
}

// Yahoo holds the chart API endpoint.
type Yahoo struct {
	BaseURL string `yaml:"base_url"`
}

// Alpaca holds credentials and endpoints for the Alpaca API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
	DataURL   string `yaml:"data_url"`
}

// News configures the feed client and the ranking defaults.
type News struct {
	BaseURL     string `yaml:"base_url"`
	WindowDays  int    `yaml:"window_days"`
	MaxItems    int    `yaml:"max_items"`
	StrictTitle *bool  `yaml:"strict_title"`
	MinScore    *int   `yaml:"min_score"`

	// ExcludeTerms replaces the built-in hard-filter list when set.
	ExcludeTerms []string `yaml:"exclude_terms"`

	// RateLimitPerMin throttles feed requests. 0 disables throttling.
	RateLimitPerMin int `yaml:"rate_limit_per_min"`
}

// Dividend configures the estimation windows.
type Dividend struct {
	TTMDays   int `yaml:"ttm_days"`
	RecentCap int `yaml:"recent_cap"`
}

// Sheet configures the remote alias spreadsheet endpoints and the
// re-sync schedule.
type Sheet struct {
	FetchURL string `yaml:"fetch_url"`
	PushURL  string `yaml:"push_url"`

	// SyncCron is a cron expression for periodic remote pulls, e.g.
	// "0 6 * * *". Empty disables scheduled sync.
	SyncCron string `yaml:"sync_cron"`
}

// Refresh configures the background bar-cache warmer.
type Refresh struct {
	// Cron is the refresh schedule, e.g. "30 15 * * 1-5". Empty disables it.
	Cron string `yaml:"cron"`

	Period          string `yaml:"period"`
	MaxWorkers      int    `yaml:"max_workers"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}

	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("SHEET_FETCH_URL"); v != "" {
		cfg.Sheet.FetchURL = v
	}

	if v := os.Getenv("SHEET_PUSH_URL"); v != "" {
		cfg.Sheet.PushURL = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Provider.Alpaca.APIKey = v
	}

	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Provider.Alpaca.APISecret = v
	}

	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Provider.Alpaca.BaseURL = v
	}

	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Provider.Alpaca.DataURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Standard Alpaca env vars (highest priority — canonical names used by SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Provider.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Provider.Alpaca.APISecret = v
	}
}
