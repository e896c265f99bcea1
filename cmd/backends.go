package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/lifeline/internal/config"
	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/database/mariadb"
	"github.com/kozaktomas/lifeline/internal/database/postgres"
	"github.com/kozaktomas/lifeline/internal/detector"
	"github.com/kozaktomas/lifeline/internal/faces"
	"github.com/kozaktomas/lifeline/internal/library"
	"github.com/kozaktomas/lifeline/internal/logger"
	"github.com/kozaktomas/lifeline/internal/photoprism"
)

var errNoDatabase = errors.New("albums require DATABASE_URL (postgres:// or mysql://)")

// backends holds the collaborators a command works with.
// albums and faceStore stay nil when no database is configured.
type backends struct {
	library   library.Library
	detector  faces.Detector
	albums    database.AlbumWriter
	faceStore database.FaceStore
	loc       *time.Location
	closers   []func()
}

// openBackends connects the photo source and, if configured, the database.
func openBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	b := &backends{
		loc:      loc,
		detector: detector.NewClient(cfg.Detector.URL, detector.WithTimeout(cfg.Detector.Timeout())),
	}

	if err := b.openLibrary(ctx, cfg); err != nil {
		return nil, err
	}
	if err := b.openDatabase(ctx, &cfg.Database); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backends) openLibrary(ctx context.Context, cfg *config.Config) error {
	log := logger.Named("library")

	if cfg.PhotoPrism.Enabled() {
		pp, err := photoprism.NewPhotoPrism(ctx, cfg.PhotoPrism.URL, cfg.PhotoPrism.Username, cfg.PhotoPrism.Password)
		if err != nil {
			return fmt.Errorf("failed to connect to PhotoPrism: %w", err)
		}
		src := library.NewPhotoPrismSource(pp, b.loc)
		b.library = src
		b.closers = append(b.closers, func() {
			if err := src.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("PhotoPrism logout failed")
			}
		})
		log.Debug().Str("url", cfg.PhotoPrism.URL).Msg("using PhotoPrism library")
		return nil
	}

	src, err := library.NewDirectorySource(cfg.Library.Dir, b.loc)
	if err != nil {
		return err
	}
	b.library = src
	log.Debug().Str("dir", src.Root()).Msg("using directory library")
	return nil
}

func (b *backends) openDatabase(ctx context.Context, dbCfg *config.DatabaseConfig) error {
	log := logger.Named("database")

	switch dbCfg.Driver() {
	case "postgres":
		if err := postgres.Initialize(dbCfg); err != nil {
			return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		b.closers = append(b.closers, func() {
			if pool := postgres.GetGlobalPool(); pool != nil {
				_ = pool.Close()
			}
		})
	case "mysql":
		pool, err := mariadb.Initialize(dbCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize MariaDB: %w", err)
		}
		b.closers = append(b.closers, func() { _ = pool.Close() })
	default:
		if dbCfg.URL != "" {
			return errors.New("unsupported DATABASE_URL scheme, expected postgres:// or mysql://")
		}
		log.Debug().Msg("no database configured, albums and face cache disabled")
		return nil
	}

	albums, err := database.GetAlbumWriter(ctx)
	if err != nil {
		return err
	}
	b.albums = albums

	if store, err := database.GetFaceStore(ctx); err == nil {
		b.faceStore = store
	} else {
		log.Debug().Err(err).Msg("face cache disabled")
	}

	log.Info().Str("backend", database.BackendName()).Msg("database connected")
	return nil
}

// requireAlbums returns the album store or errNoDatabase.
func (b *backends) requireAlbums() (database.AlbumWriter, error) {
	if b.albums == nil {
		return nil, errNoDatabase
	}
	return b.albums, nil
}

// Close releases everything opened, newest first.
func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
