// Package config loads the ddscan configuration from a YAML file, an
// optional .env file and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSheetID is the public spreadsheet that collects DD post titles.
const DefaultSheetID = "1X8aBiGCBL5rHvToZiZqMiLdEfMWTuvZT5NwuITWdqKo"

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for ddscan.
type Config struct {
	Logging   Logging   `yaml:"logging"`
	Directory Directory `yaml:"directory"`
	Scan      Scan      `yaml:"scan"`
	Sheet     Sheet     `yaml:"sheet"`
	RSS       RSS       `yaml:"rss"`
	Alpaca    Alpaca    `yaml:"alpaca"`
	Archive   Archive   `yaml:"archive"`
	Metrics   Metrics   `yaml:"metrics"`
	HTTP      HTTP      `yaml:"http"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Directory points at the company reference file.
type Directory struct {
	Path string `yaml:"path"`
	// Format is "csv", "parquet" or "sqlite"; empty means infer from the
	// file extension.
	Format      string `yaml:"format"`
	SQLiteTable string `yaml:"sqlite_table"`
}

// Scan controls a scan run.
type Scan struct {
	DaysBack int      `yaml:"days_back"`
	Sources  []string `yaml:"sources"`
	Workers  int      `yaml:"workers"`
}

// Sheet configures the spreadsheet post source.
type Sheet struct {
	ID string `yaml:"id"`
	// URL overrides the gviz export URL derived from ID.
	URL string `yaml:"url"`
}

// RSS configures the RSS post source.
type RSS struct {
	Feeds           []string `yaml:"feeds"`
	RateLimitPerMin int      `yaml:"rate_limit_per_min"`
}

// Alpaca holds credentials and query settings for the Alpaca news API.
type Alpaca struct {
	APIKey    string   `yaml:"api_key"`
	APISecret string   `yaml:"api_secret"`
	DataURL   string   `yaml:"data_url"`
	Symbols   []string `yaml:"symbols"`
	Limit     int      `yaml:"limit"`
}

// Archive locates the daily news parquet archive.
type Archive struct {
	DataDir string `yaml:"data_dir"`
}

// Metrics configures the Prometheus textfile output.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// HTTP holds client settings shared by the remote sources.
type HTTP struct {
	Timeout    time.Duration `yaml:"timeout"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies environment variable overrides and fills defaults.
// An empty path skips the file and uses defaults plus the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Validate reports configuration values a scan cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Directory.Path == "" {
		errs = append(errs, errors.New("directory.path is required"))
	}
	if c.Scan.DaysBack < 1 {
		errs = append(errs, fmt.Errorf("scan.days_back must be at least 1, got %d", c.Scan.DaysBack))
	}
	if c.Scan.Workers < 1 {
		errs = append(errs, fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers))
	}
	if len(c.Scan.Sources) == 0 {
		errs = append(errs, errors.New("scan.sources is empty"))
	}
	if c.HTTP.Retries < 1 {
		errs = append(errs, fmt.Errorf("http.retries must be at least 1, got %d", c.HTTP.Retries))
	}
	return errors.Join(errs...)
}

// applyDefaults fills zero values: one day back over the public sheet,
// resolved against the NASDAQ screener CSV.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Directory.Path == "" {
		cfg.Directory.Path = "reference/nasdaq_screener.csv"
	}
	if cfg.Directory.SQLiteTable == "" {
		cfg.Directory.SQLiteTable = "companies"
	}
	if cfg.Scan.DaysBack == 0 {
		cfg.Scan.DaysBack = 1
	}
	if len(cfg.Scan.Sources) == 0 {
		cfg.Scan.Sources = []string{"sheet"}
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 8
	}
	if cfg.Sheet.ID == "" && cfg.Sheet.URL == "" {
		cfg.Sheet.ID = DefaultSheetID
	}
	if cfg.RSS.RateLimitPerMin == 0 {
		cfg.RSS.RateLimitPerMin = 60
	}
	if cfg.Alpaca.Limit == 0 {
		cfg.Alpaca.Limit = 50
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 10 * time.Second
	}
	if cfg.HTTP.Retries == 0 {
		cfg.HTTP.Retries = 3
	}
	if cfg.HTTP.RetryDelay == 0 {
		cfg.HTTP.RetryDelay = 500 * time.Millisecond
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("DIRECTORY_PATH"); v != "" {
		cfg.Directory.Path = v
	}

	if v := os.Getenv("DDSCAN_SHEET_ID"); v != "" {
		cfg.Sheet.ID = v
	}
	if v := os.Getenv("DDSCAN_SOURCES"); v != "" {
		cfg.Scan.Sources = splitList(v)
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Archive.DataDir = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}

	// Standard Alpaca env vars win; they are the names the SDK reads.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
