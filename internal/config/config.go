// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds engine configuration values loaded from file or environment
// variables.
type Config struct {
	Env string `mapstructure:"APP_ENV"`

	// Local cache snapshot persistence.
	CachePersister string `mapstructure:"CACHE_PERSISTER"` // file | redis | none
	CachePath      string `mapstructure:"CACHE_PATH"`
	RedisURL       string `mapstructure:"REDIS_URL"`

	// Remote store database.
	DBDriver   string `mapstructure:"DB_DRIVER"` // sqlite | postgres
	DBPath     string `mapstructure:"DB_PATH"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	// Image normalization.
	ImageFormat      string `mapstructure:"IMAGE_FORMAT"` // jpeg | webp
	ImageMaxEdge     int    `mapstructure:"IMAGE_MAX_EDGE"`
	ImageJPEGQuality int    `mapstructure:"IMAGE_JPEG_QUALITY"`
	ImageWebPQuality int    `mapstructure:"IMAGE_WEBP_QUALITY"`

	// Tracing.
	TracingEnabled bool    `mapstructure:"TRACING_ENABLED"`
	TracingSampler float64 `mapstructure:"TRACING_SAMPLER"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config
	// We intentionally ignore this error as the config file may not exist yet
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	// Set default values for development
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CACHE_PERSISTER", "file")
	viper.SetDefault("CACHE_PATH", "/tmp/openwall/cache.json")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "/tmp/openwall/remote.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "openwall")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("IMAGE_FORMAT", "jpeg")
	viper.SetDefault("IMAGE_MAX_EDGE", 300)
	viper.SetDefault("IMAGE_JPEG_QUALITY", 90)
	viper.SetDefault("IMAGE_WEBP_QUALITY", 70)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_SAMPLER", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	switch c.CachePersister {
	case "file":
		if c.CachePath == "" {
			return errors.New("CACHE_PATH is required when CACHE_PERSISTER is 'file'")
		}
	case "redis":
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when CACHE_PERSISTER is 'redis'")
		}
	case "none":
	default:
		return fmt.Errorf("CACHE_PERSISTER must be 'file', 'redis' or 'none', got %q", c.CachePersister)
	}

	switch c.DBDriver {
	case "sqlite", "":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required when DB_DRIVER is 'sqlite'")
		}
	case "postgres":
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required when DB_DRIVER is 'postgres'")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be 'sqlite' or 'postgres', got %q", c.DBDriver)
	}

	switch c.ImageFormat {
	case "jpeg", "webp":
	default:
		return fmt.Errorf("IMAGE_FORMAT must be 'jpeg' or 'webp', got %q", c.ImageFormat)
	}
	if c.ImageMaxEdge <= 0 {
		return errors.New("IMAGE_MAX_EDGE must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.DBDriver == "postgres" && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBDriver == "postgres" && (c.DBSSLMode == "disable" || c.DBSSLMode == "") {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	return nil
}
