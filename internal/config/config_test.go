package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"LIBRARY_DIR", "DETECTOR_URL", "DETECTOR_TIMEOUT_SECONDS", "DATABASE_MAX_OPEN_CONNS",
		"DATABASE_MAX_IDLE_CONNS", "CLUSTER_THRESHOLD", "SCAN_CONCURRENCY", "TIMEZONE",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Library.Dir != "." {
		t.Errorf("expected library dir '.', got '%s'", cfg.Library.Dir)
	}
	if cfg.Detector.URL != "http://localhost:8000" {
		t.Errorf("expected detector URL 'http://localhost:8000', got '%s'", cfg.Detector.URL)
	}
	if cfg.Detector.Timeout() != 120*time.Second {
		t.Errorf("expected detector timeout 120s, got %v", cfg.Detector.Timeout())
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("unexpected pool defaults: %+v", cfg.Database)
	}
	if cfg.Clustering.Threshold != 50 {
		t.Errorf("expected threshold 50, got %v", cfg.Clustering.Threshold)
	}
	if cfg.Clustering.Concurrency != 5 {
		t.Errorf("expected concurrency 5, got %d", cfg.Clustering.Concurrency)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("expected timezone 'Local', got '%s'", cfg.Timezone)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LIBRARY_DIR", "/photos")
	t.Setenv("DETECTOR_URL", "http://detector:9000")
	t.Setenv("CLUSTER_THRESHOLD", "72.5")
	t.Setenv("SCAN_CONCURRENCY", "12")
	t.Setenv("TIMEZONE", "Europe/Prague")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()

	if cfg.Library.Dir != "/photos" {
		t.Errorf("expected library dir '/photos', got '%s'", cfg.Library.Dir)
	}
	if cfg.Detector.URL != "http://detector:9000" {
		t.Errorf("expected detector URL override, got '%s'", cfg.Detector.URL)
	}
	if cfg.Clustering.Threshold != 72.5 {
		t.Errorf("expected threshold 72.5, got %v", cfg.Clustering.Threshold)
	}
	if cfg.Clustering.Concurrency != 12 {
		t.Errorf("expected concurrency 12, got %d", cfg.Clustering.Concurrency)
	}
	if cfg.Timezone != "Europe/Prague" {
		t.Errorf("expected timezone 'Europe/Prague', got '%s'", cfg.Timezone)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Log.Format)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"non-numeric", "invalid"},
		{"negative", "-10"},
		{"zero", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CLUSTER_THRESHOLD", tt.value)
			t.Setenv("SCAN_CONCURRENCY", tt.value)

			cfg := Load()

			if cfg.Clustering.Threshold != 50 {
				t.Errorf("expected default threshold 50 for %q, got %v", tt.value, cfg.Clustering.Threshold)
			}
			if cfg.Clustering.Concurrency != 5 {
				t.Errorf("expected default concurrency 5 for %q, got %d", tt.value, cfg.Clustering.Concurrency)
			}
		})
	}
}

func TestLoad_PhotoPrismConfig(t *testing.T) {
	t.Setenv("PHOTOPRISM_URL", "https://photos.test.com")
	t.Setenv("PHOTOPRISM_USERNAME", "testuser")
	t.Setenv("PHOTOPRISM_PASSWORD", "testpass")

	cfg := Load()

	if !cfg.PhotoPrism.Enabled() {
		t.Error("expected PhotoPrism to be enabled")
	}
	if cfg.PhotoPrism.Username != "testuser" || cfg.PhotoPrism.Password != "testpass" {
		t.Errorf("unexpected credentials: %+v", cfg.PhotoPrism)
	}
}

func TestDatabaseConfig_Driver(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"postgres://u:p@localhost:5432/lifeline", "postgres"},
		{"postgresql://localhost/lifeline", "postgres"},
		{"mysql://u:p@localhost:3306/lifeline", "mysql"},
		{"mariadb://u:p@db/lifeline", "mysql"},
		{"", ""},
		{"sqlite:///tmp/x.db", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			cfg := DatabaseConfig{URL: tt.url}
			if got := cfg.Driver(); got != tt.expected {
				t.Errorf("Driver() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Timezone: "Local"}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("expected time.Local, got %v (%v)", loc, err)
	}

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("expected UTC, got %v (%v)", loc, err)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("WEB_ALLOWED_ORIGINS", " https://photos.example.com, ,https://admin.example.com ")

	cfg := Load()
	want := []string{"https://photos.example.com", "https://admin.example.com"}
	if len(cfg.Web.AllowedOrigins) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Web.AllowedOrigins)
	}
	for i := range want {
		if cfg.Web.AllowedOrigins[i] != want[i] {
			t.Errorf("origin %d: expected %s, got %s", i, want[i], cfg.Web.AllowedOrigins[i])
		}
	}
}

func TestClusteringConfig_OrDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   ClusteringConfig
		want ClusteringConfig
	}{
		{"unset", ClusteringConfig{}, ClusteringConfig{Threshold: 50, Concurrency: 5}},
		{"negative", ClusteringConfig{Threshold: -1, Concurrency: -1}, ClusteringConfig{Threshold: 50, Concurrency: 5}},
		{"set", ClusteringConfig{Threshold: 30, Concurrency: 8}, ClusteringConfig{Threshold: 30, Concurrency: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.orDefaults(); got != tt.want {
				t.Errorf("orDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
