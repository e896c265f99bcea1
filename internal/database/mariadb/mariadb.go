package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/kozaktomas/lifeline/internal/config"
	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/logger"
)

// Pool manages a MariaDB connection pool.
type Pool struct {
	db *sql.DB
}

// DSN converts a mysql:// or mariadb:// URL into a go-sql-driver DSN.
// Query parameters are passed through as driver params.
func DSN(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}
	if u.Scheme != "mysql" && u.Scheme != "mariadb" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Hostname() + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		cfg.Params[key] = values[0]
	}

	return cfg.FormatDSN(), nil
}

// NewPool creates a new MariaDB connection pool.
func NewPool(cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("MariaDB URL is required")
	}

	dsn, err := DSN(cfg.URL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{db: db}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// Migrate creates the albums table if it does not exist.
func (p *Pool) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS albums (
			id            VARCHAR(64) PRIMARY KEY,
			title         TEXT NOT NULL,
			start_date    DATETIME(3) NOT NULL,
			end_date      DATETIME(3) NOT NULL,
			cover_locator TEXT NOT NULL,
			photo_count   INT NOT NULL DEFAULT 0,
			created_at    DATETIME(3) NOT NULL,
			INDEX idx_albums_start_date (start_date)
		) CHARACTER SET utf8mb4
	`)
	if err != nil {
		return fmt.Errorf("create albums table: %w", err)
	}
	return nil
}

// Initialize connects, migrates and registers MariaDB as the album backend.
// MariaDB carries no face cache.
func Initialize(cfg *config.DatabaseConfig) (*Pool, error) {
	pool, err := NewPool(cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Migrate(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}

	albums := NewAlbumRepository(pool)
	database.RegisterAlbumBackend("mariadb", func() database.AlbumWriter { return albums })

	log := logger.Named("mariadb")
	log.Debug().Msg("MariaDB backend initialized")
	return pool, nil
}
