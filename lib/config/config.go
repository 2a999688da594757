// Copyright 2026 The Stowage Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the stowage server.
//
// Configuration comes from one of two bases:
//
//   - The environment (the default): a .env file is loaded if present,
//     then STOWAGE-relevant variables are read with defaults applied.
//   - A YAML config file, when a path is given via --config or the
//     STOWAGE_CONFIG environment variable. The file replaces the
//     environment layer entirely; the only environment access is
//     explicit ${VAR} / ${VAR:-default} expansion inside string
//     values, so files can reference credentials without embedding
//     them. This keeps file-based deployments deterministic with no
//     hidden overrides.
//
// Transport flags (--transport, --host, --port) are overlaid by the
// binary after loading, so a deployment can switch transports without
// editing its config source.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Supported transport values for Server.Transport.
const (
	TransportStdio          = "stdio"
	TransportHTTP           = "http"
	TransportStreamableHTTP = "streamable-http"
)

// Config is the full configuration for the stowage server.
type Config struct {
	// Minio configures the object store connection.
	Minio MinioConfig `yaml:"minio"`

	// Catalog configures resource catalog construction limits.
	Catalog CatalogConfig `yaml:"catalog"`

	// Server configures the MCP transport.
	Server ServerConfig `yaml:"server"`
}

// MinioConfig configures the connection to the MinIO/S3 endpoint.
type MinioConfig struct {
	// Endpoint is the host:port of the object store (no scheme).
	Endpoint string `yaml:"endpoint"`

	// AccessKey and SecretKey are the static credentials. Empty
	// values produce an anonymous client, which only works against
	// stores with public buckets.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// UseSSL selects TLS for the endpoint connection.
	UseSSL bool `yaml:"use_ssl"`

	// Region is the bucket region hint. Usually empty for MinIO.
	Region string `yaml:"region"`
}

// CatalogConfig bounds the work a single catalog refresh performs.
type CatalogConfig struct {
	// MaxBuckets caps how many buckets are enumerated per refresh
	// and per ListBuckets call.
	MaxBuckets int `yaml:"max_buckets"`

	// MaxKeys caps how many keys a single bucket listing returns.
	MaxKeys int `yaml:"max_keys"`

	// BucketConcurrency is the number of bucket listings allowed
	// in flight at once during a refresh.
	BucketConcurrency int `yaml:"bucket_concurrency"`
}

// ServerConfig selects and configures the MCP transport.
type ServerConfig struct {
	// Transport is one of "stdio", "http", or "streamable-http"
	// (an alias for "http").
	Transport string `yaml:"transport"`

	// Host and Port are the bind address for the HTTP transport.
	// Ignored for stdio.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Path is the HTTP endpoint path for JSON-RPC POST exchanges.
	Path string `yaml:"path"`
}

// Environment variable names and their defaults. The MINIO_* and
// SERVER_*/MCP_* names are the server's published deployment surface;
// .env files address configuration through them directly.
var envDefaults = map[string]any{
	"MINIO_ENDPOINT":           "localhost:9000",
	"MINIO_ACCESS_KEY":         "",
	"MINIO_SECRET_KEY":         "",
	"MINIO_USE_SSL":            false,
	"MINIO_REGION":             "",
	"MINIO_MAX_BUCKETS":        5,
	"MINIO_MAX_KEYS":           1000,
	"MINIO_BUCKET_CONCURRENCY": 3,
	"MCP_TRANSPORT":            TransportStdio,
	"SERVER_HOST":              "0.0.0.0",
	"SERVER_PORT":              8000,
	"SERVER_MESSAGE_PATH":      "/mcp",
}

// Default returns the built-in defaults, identical to what FromEnv
// produces in an empty environment.
func Default() *Config {
	return &Config{
		Minio: MinioConfig{
			Endpoint: "localhost:9000",
		},
		Catalog: CatalogConfig{
			MaxBuckets:        5,
			MaxKeys:           1000,
			BucketConcurrency: 3,
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			Host:      "0.0.0.0",
			Port:      8000,
			Path:      "/mcp",
		},
	}
}

// Load resolves the configuration base. A non-empty path (from the
// --config flag) or the STOWAGE_CONFIG environment variable selects
// the YAML file; otherwise the environment is the base.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("STOWAGE_CONFIG")
	}
	if path != "" {
		return LoadFile(path)
	}
	return FromEnv(), nil
}

// FromEnv builds the configuration from environment variables. A .env
// file in the working directory is loaded first when present, so
// development setups can keep credentials out of the shell profile.
func FromEnv() *Config {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	for key, value := range envDefaults {
		viper.SetDefault(key, value)
	}
	viper.AutomaticEnv()

	return &Config{
		Minio: MinioConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Region:    viper.GetString("MINIO_REGION"),
		},
		Catalog: CatalogConfig{
			MaxBuckets:        viper.GetInt("MINIO_MAX_BUCKETS"),
			MaxKeys:           viper.GetInt("MINIO_MAX_KEYS"),
			BucketConcurrency: viper.GetInt("MINIO_BUCKET_CONCURRENCY"),
		},
		Server: ServerConfig{
			Transport: viper.GetString("MCP_TRANSPORT"),
			Host:      viper.GetString("SERVER_HOST"),
			Port:      viper.GetInt("SERVER_PORT"),
			Path:      viper.GetString("SERVER_MESSAGE_PATH"),
		},
	}
}

// LoadFile loads configuration from a YAML file. File values are laid
// over the defaults, then ${VAR} / ${VAR:-default} patterns in string
// values are expanded from the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in every
// string field that can carry them.
func (c *Config) expandVariables() {
	c.Minio.Endpoint = expandVars(c.Minio.Endpoint)
	c.Minio.AccessKey = expandVars(c.Minio.AccessKey)
	c.Minio.SecretKey = expandVars(c.Minio.SecretKey)
	c.Minio.Region = expandVars(c.Minio.Region)
	c.Server.Transport = expandVars(c.Server.Transport)
	c.Server.Host = expandVars(c.Server.Host)
	c.Server.Path = expandVars(c.Server.Path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, collecting every
// violation rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []error

	if c.Minio.Endpoint == "" {
		errs = append(errs, fmt.Errorf("minio.endpoint is required"))
	}
	if c.Catalog.MaxBuckets < 1 {
		errs = append(errs, fmt.Errorf("catalog.max_buckets must be at least 1, got %d", c.Catalog.MaxBuckets))
	}
	if c.Catalog.MaxKeys < 1 {
		errs = append(errs, fmt.Errorf("catalog.max_keys must be at least 1, got %d", c.Catalog.MaxKeys))
	}
	if c.Catalog.BucketConcurrency < 1 {
		errs = append(errs, fmt.Errorf("catalog.bucket_concurrency must be at least 1, got %d", c.Catalog.BucketConcurrency))
	}

	switch c.Server.Transport {
	case TransportStdio, TransportHTTP, TransportStreamableHTTP:
	default:
		errs = append(errs, fmt.Errorf("server.transport %q is not supported (supported: %s, %s, %s)",
			c.Server.Transport, TransportStdio, TransportHTTP, TransportStreamableHTTP))
	}

	if c.HTTPTransport() {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
		}
		if c.Server.Path == "" || c.Server.Path[0] != '/' {
			errs = append(errs, fmt.Errorf("server.path must start with '/', got %q", c.Server.Path))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HTTPTransport reports whether the configured transport is served
// over HTTP ("http" or its alias "streamable-http").
func (c *Config) HTTPTransport() bool {
	return c.Server.Transport == TransportHTTP || c.Server.Transport == TransportStreamableHTTP
}

// ListenAddress is the host:port bind address for the HTTP transport.
func (c *Config) ListenAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
