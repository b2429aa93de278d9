// Package config loads runtime settings from config.yml and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port          string `mapstructure:"PORT"`
	Env           string `mapstructure:"APP_ENV"`
	SiteName      string `mapstructure:"SITE_NAME"`
	Timezone      string `mapstructure:"TIMEZONE"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	CSRFEnabled   bool   `mapstructure:"CSRF_ENABLED"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	MediaBackend string `mapstructure:"MEDIA_BACKEND"`
	MediaRoot    string `mapstructure:"MEDIA_ROOT"`
	MediaURL     string `mapstructure:"MEDIA_URL"`
	MaxUploadMB  int64  `mapstructure:"MAX_UPLOAD_MB"`

	S3Bucket          string `mapstructure:"S3_BUCKET"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3PublicURL       string `mapstructure:"S3_PUBLIC_URL"`
}

var defaults = map[string]any{
	"PORT":           "8080",
	"APP_ENV":        "development",
	"SITE_NAME":      "Blogicum",
	"TIMEZONE":       "UTC",
	"SESSION_SECRET": "secret_key_change_me",
	"CSRF_ENABLED":   true,

	"DB_DRIVER":    "postgres",
	"DATABASE_URL": "host=localhost user=postgres password=postgres dbname=blogicum port=5432 sslmode=disable",

	"MEDIA_BACKEND": "local",
	"MEDIA_ROOT":    "./media",
	"MEDIA_URL":     "/media/",
	"MAX_UPLOAD_MB": 10,

	"S3_BUCKET":            "",
	"S3_REGION":            "",
	"S3_ENDPOINT":          "",
	"S3_ACCESS_KEY_ID":     "",
	"S3_SECRET_ACCESS_KEY": "",
	"S3_PUBLIC_URL":        "",
}

// Load reads config.yml from the given directories (the working directory when none are
// given) and overlays environment variables. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.MediaBackend {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND %q", c.MediaBackend)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if !strings.HasSuffix(c.MediaURL, "/") {
		c.MediaURL += "/"
	}
	return nil
}

// IsProduction reports whether the app runs with production logging and cookies.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves TIMEZONE; pub_date form input is interpreted in it.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
