// Package config loads the cryptofolio settings.
//
// Settings come, by increasing priority, from the defaults, an optional
// cryptofolio.yaml file, a .env file in the working directory and the
// environment variables prefixed with CRYPTOFOLIO_ (CRYPTOFOLIO_DATA_DIR,
// CRYPTOFOLIO_PRICEFEED_API_KEY, ...).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys of the settings.
const (
	KeyDataDir          = "data_dir"
	KeyQuoteCurrency    = "quote_currency"
	KeyPriceFeedBaseURL = "pricefeed.base_url"
	KeyPriceFeedAPIKey  = "pricefeed.api_key"
	KeyPriceFeedTTL     = "pricefeed.cache_ttl"
	KeyPriceFeedTimeout = "pricefeed.timeout"
	KeyLogFile          = "log.file"
	KeyLogMaxSizeMB     = "log.max_size_mb"
	KeyLogMaxBackups    = "log.max_backups"
)

// Config holds the settings.
type Config struct {
	DataDir       string // DataDir holds the JSON collections.
	QuoteCurrency string // QuoteCurrency prices are expressed in.
	PriceFeed     PriceFeed
	Log           Log
}

// PriceFeed holds the settings of the remote price feed.
type PriceFeed struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// Log holds the settings of the log output. An empty File logs to stderr.
type Log struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// DefaultDataDir returns the default data directory: cryptofolio in the user
// configuration directory, or .cryptofolio when there is none.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".cryptofolio"
	}
	return filepath.Join(dir, "cryptofolio")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, DefaultDataDir())
	v.SetDefault(KeyQuoteCurrency, "USD")
	v.SetDefault(KeyPriceFeedBaseURL, "https://pro-api.coinmarketcap.com")
	v.SetDefault(KeyPriceFeedAPIKey, "")
	v.SetDefault(KeyPriceFeedTTL, "60s")
	v.SetDefault(KeyPriceFeedTimeout, "10s")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSizeMB, 10)
	v.SetDefault(KeyLogMaxBackups, 3)
}

// Load reads the settings. If path is empty, cryptofolio.yaml is looked up in
// the working directory and then in the default data directory; a missing
// file is not an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CRYPTOFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("cryptofolio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDataDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("cannot read config: %w", err)
			}
		}
	}

	c := &Config{
		DataDir:       v.GetString(KeyDataDir),
		QuoteCurrency: strings.ToUpper(v.GetString(KeyQuoteCurrency)),
		PriceFeed: PriceFeed{
			BaseURL:  v.GetString(KeyPriceFeedBaseURL),
			APIKey:   v.GetString(KeyPriceFeedAPIKey),
			CacheTTL: v.GetDuration(KeyPriceFeedTTL),
			Timeout:  v.GetDuration(KeyPriceFeedTimeout),
		},
		Log: Log{
			File:       v.GetString(KeyLogFile),
			MaxSizeMB:  v.GetInt(KeyLogMaxSizeMB),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
		},
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyDataDir))
	}
	if len(c.QuoteCurrency) != 3 {
		errs = append(errs, fmt.Errorf("%s must be a 3 letter currency code, got %q", KeyQuoteCurrency, c.QuoteCurrency))
	}
	if c.PriceFeed.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyPriceFeedBaseURL))
	}
	if c.PriceFeed.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyPriceFeedTimeout))
	}
	if c.Log.MaxSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyLogMaxSizeMB))
	}
	return errors.Join(errs...)
}
