package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validBase() Config {
	return Config{
		Env:              "development",
		CachePersister:   "file",
		CachePath:        "/tmp/openwall/cache.json",
		RedisURL:         "localhost:6379",
		DBDriver:         "sqlite",
		DBPath:           "/tmp/openwall/remote.db",
		ImageFormat:      "jpeg",
		ImageMaxEdge:     300,
		ImageJPEGQuality: 90,
		ImageWebPQuality: 70,
	}
}

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid development config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name: "file persister requires cache path",
			mutate: func(c *Config) {
				c.CachePath = ""
			},
			expectError: true,
			errorMsg:    "CACHE_PATH is required",
		},
		{
			name: "redis persister requires redis url",
			mutate: func(c *Config) {
				c.CachePersister = "redis"
				c.RedisURL = ""
			},
			expectError: true,
			errorMsg:    "REDIS_URL is required",
		},
		{
			name: "none persister needs no paths",
			mutate: func(c *Config) {
				c.CachePersister = "none"
				c.CachePath = ""
				c.RedisURL = ""
			},
			expectError: false,
		},
		{
			name: "unknown persister rejected",
			mutate: func(c *Config) {
				c.CachePersister = "memcached"
			},
			expectError: true,
			errorMsg:    "CACHE_PERSISTER must be",
		},
		{
			name: "sqlite requires db path",
			mutate: func(c *Config) {
				c.DBPath = ""
			},
			expectError: true,
			errorMsg:    "DB_PATH is required",
		},
		{
			name: "postgres requires host and name",
			mutate: func(c *Config) {
				c.DBDriver = "postgres"
				c.DBHost = ""
				c.DBName = "openwall"
			},
			expectError: true,
			errorMsg:    "DB_HOST and DB_NAME are required",
		},
		{
			name: "unknown driver rejected",
			mutate: func(c *Config) {
				c.DBDriver = "oracle"
			},
			expectError: true,
			errorMsg:    "DB_DRIVER must be",
		},
		{
			name: "unknown image format rejected",
			mutate: func(c *Config) {
				c.ImageFormat = "gif"
			},
			expectError: true,
			errorMsg:    "IMAGE_FORMAT must be",
		},
		{
			name: "non-positive max edge rejected",
			mutate: func(c *Config) {
				c.ImageMaxEdge = 0
			},
			expectError: true,
			errorMsg:    "IMAGE_MAX_EDGE must be positive",
		},
		{
			name: "production rejects default postgres password",
			mutate: func(c *Config) {
				c.Env = "production"
				c.DBDriver = "postgres"
				c.DBHost = "db.internal"
				c.DBName = "openwall"
				c.DBPassword = "password"
			},
			expectError: true,
			errorMsg:    "strong DB_PASSWORD",
		},
		{
			name: "production accepts strong postgres password",
			mutate: func(c *Config) {
				c.Env = "production"
				c.DBDriver = "postgres"
				c.DBHost = "db.internal"
				c.DBName = "openwall"
				c.DBPassword = "s3cure-and-long"
				c.DBSSLMode = "require"
			},
			expectError: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validBase()
			tc.mutate(&cfg)

			err := cfg.Validate()

			if tc.expectError {
				assert.Error(t, err)
				if tc.errorMsg != "" {
					assert.Contains(t, err.Error(), tc.errorMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
