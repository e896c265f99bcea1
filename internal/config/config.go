package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/lifeline/internal/clustering"
	"github.com/kozaktomas/lifeline/internal/constants"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Library    LibraryConfig    `yaml:"library"`
	PhotoPrism PhotoPrismConfig `yaml:"-"`
	Detector   DetectorConfig   `yaml:"detector"`
	Database   DatabaseConfig   `yaml:"database"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Timezone   string           `yaml:"timezone"`
	Log        LogConfig        `yaml:"log"`
	Web        WebConfig        `yaml:"-"`
}

type WebConfig struct {
	AllowedOrigins []string // extra CORS origins; localhost is always allowed
}

type LibraryConfig struct {
	Dir string `yaml:"dir"` // local photo directory, used when PhotoPrism is not configured
}

type PhotoPrismConfig struct {
	URL      string
	Username string
	Password string
}

// Enabled reports whether PhotoPrism should be used as the photo source.
func (c *PhotoPrismConfig) Enabled() bool {
	return c.URL != ""
}

type DetectorConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-request timeout for the detection service.
func (c *DetectorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	URL          string `yaml:"-"`              // postgres://... or mysql://...
	MaxOpenConns int    `yaml:"max_open_conns"` // Maximum open connections
	MaxIdleConns int    `yaml:"max_idle_conns"` // Maximum idle connections
}

// Driver returns "postgres", "mysql" or "" based on the URL scheme.
func (c *DatabaseConfig) Driver() string {
	switch {
	case strings.HasPrefix(c.URL, "postgres://"), strings.HasPrefix(c.URL, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(c.URL, "mysql://"), strings.HasPrefix(c.URL, "mariadb://"):
		return "mysql"
	default:
		return ""
	}
}

type ClusteringConfig struct {
	Threshold   float64 `yaml:"threshold"`
	Concurrency int     `yaml:"concurrency"`
}

// orDefaults fills unset or non-positive values with the built-in defaults.
func (c ClusteringConfig) orDefaults() ClusteringConfig {
	if c.Threshold <= 0 {
		c.Threshold = clustering.DefaultThreshold
	}
	if c.Concurrency <= 0 {
		c.Concurrency = constants.DefaultConcurrency
	}
	return c
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Location resolves Timezone; "Local" or empty means the process local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// envString returns the environment value or the default when unset or empty.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat is envInt for positive floating point values.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envList reads a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var defaults Config
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	defaults.Clustering = defaults.Clustering.orDefaults()

	return &Config{
		Library: LibraryConfig{
			Dir: envString("LIBRARY_DIR", defaults.Library.Dir),
		},
		PhotoPrism: PhotoPrismConfig{
			URL:      os.Getenv("PHOTOPRISM_URL"),
			Username: os.Getenv("PHOTOPRISM_USERNAME"),
			Password: os.Getenv("PHOTOPRISM_PASSWORD"),
		},
		Detector: DetectorConfig{
			URL:            envString("DETECTOR_URL", defaults.Detector.URL),
			TimeoutSeconds: envInt("DETECTOR_TIMEOUT_SECONDS", defaults.Detector.TimeoutSeconds),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", defaults.Database.MaxOpenConns),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", defaults.Database.MaxIdleConns),
		},
		Clustering: ClusteringConfig{
			Threshold:   envFloat("CLUSTER_THRESHOLD", defaults.Clustering.Threshold),
			Concurrency: envInt("SCAN_CONCURRENCY", defaults.Clustering.Concurrency),
		},
		Timezone: envString("TIMEZONE", defaults.Timezone),
		Web: WebConfig{
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", defaults.Log.Level),
			Format: envString("LOG_FORMAT", defaults.Log.Format),
		},
	}
}
