package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	ProvidersFile  string `mapstructure:"providers_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	CrawlIntervalSeconds int64         `mapstructure:"crawl_interval"`
	HTTPTimeoutSeconds   int64         `mapstructure:"http_timeout_seconds"`
	CrawlInterval        time.Duration `mapstructure:"-"`
	HTTPTimeout          time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// DefaultEnvFile is the dotenv file read when no other path is given.
const DefaultEnvFile = "configs/.env"

var defaults = map[string]any{
	"app_name":                         "samvad-bulletin",
	"app_env":                          "development",
	"log_level":                        "info",
	"providers_file":                   "./configs/providers.yaml",
	"publishers_file":                  "./configs/publishers.yaml",
	"crawl_interval":                   900,
	"http_timeout_seconds":             15,
	"storage_type":                     "bbolt",
	"bbolt_path":                       "./data/announced.db",
	"storage_ttl_seconds":              int64((5 * 24 * time.Hour) / time.Second),
	"storage_cleanup_interval_seconds": int64((12 * time.Hour) / time.Second),
}

// LoadFrom reads configuration from envFile and the environment, with the
// environment taking precedence. A missing file is not an error and an empty
// path skips dotenv entirely.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	durations := []struct {
		key     string
		seconds int64
		into    *time.Duration
	}{
		{"crawl_interval", cfg.CrawlIntervalSeconds, &cfg.CrawlInterval},
		{"http_timeout_seconds", cfg.HTTPTimeoutSeconds, &cfg.HTTPTimeout},
		{"storage_ttl_seconds", cfg.StorageTTLSeconds, &cfg.StorageTTL},
		{"storage_cleanup_interval_seconds", cfg.StorageCleanupSeconds, &cfg.StorageCleanupInterval},
	}
	for _, d := range durations {
		if d.seconds <= 0 {
			return nil, fmt.Errorf("invalid %s (must be positive seconds)", d.key)
		}
		*d.into = time.Duration(d.seconds) * time.Second
	}

	return &cfg, nil
}
