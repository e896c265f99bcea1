package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/logger"
)

// albumsChannel is the NOTIFY channel raised by the albums table trigger.
const albumsChannel = "albums_changed"

// listenerPingInterval keeps the LISTEN connection from idling out.
const listenerPingInterval = 90 * time.Second

// AlbumRepository provides PostgreSQL-backed album storage.
// All watchers share one LISTEN connection, started by the first Watch and
// stopped when the pool closes.
type AlbumRepository struct {
	pool *Pool
	feed *database.ChangeFeed

	mu       sync.Mutex
	listener *pq.Listener
	stop     context.CancelFunc
}

// NewAlbumRepository creates a new PostgreSQL album repository.
func NewAlbumRepository(pool *Pool) *AlbumRepository {
	r := &AlbumRepository{pool: pool, feed: database.NewChangeFeed()}
	pool.OnClose(r.Close)
	return r
}

const albumColumns = `id, title, start_date, end_date, cover_locator, photo_count, created_at`

// Get retrieves an album by id.
func (r *AlbumRepository) Get(ctx context.Context, id string) (*database.Album, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+albumColumns+" FROM albums WHERE id = $1", id)
	a, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	return a, nil
}

// List returns albums newest first, optionally filtered by title.
func (r *AlbumRepository) List(ctx context.Context, query string) ([]database.Album, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+albumColumns+" FROM albums ORDER BY start_date DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	albums := make([]database.Album, 0)
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}

	// Diacritic-insensitive matching needs unaccent, which may not be installed.
	return database.FilterAlbums(albums, query), nil
}

// Save inserts or replaces an album.
func (r *AlbumRepository) Save(ctx context.Context, a database.Album) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO albums (`+albumColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			cover_locator = EXCLUDED.cover_locator,
			photo_count = EXCLUDED.photo_count
	`, a.ID, a.Title, a.StartDate, a.EndDate, a.CoverLocator, a.PhotoCount, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("save album: %w", err)
	}
	return nil
}

// Delete removes an album.
func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, "DELETE FROM albums WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	if n == 0 {
		return database.ErrAlbumNotFound
	}
	return nil
}

// Watch streams the album list on every change, including changes made by
// other processes, using LISTEN/NOTIFY.
func (r *AlbumRepository) Watch(ctx context.Context) (<-chan []database.Album, error) {
	if err := r.listen(); err != nil {
		return nil, err
	}
	changes, unsubscribe := r.feed.Subscribe()
	listAll := func(ctx context.Context) ([]database.Album, error) { return r.List(ctx, "") }
	return database.StreamAlbums(ctx, logger.Named("postgres"), listAll, changes, unsubscribe), nil
}

// listen starts the shared listener unless it is already running.
func (r *AlbumRepository) listen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener != nil {
		return nil
	}

	log := logger.Named("postgres")
	listener := pq.NewListener(r.pool.url, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn().Err(err).Msg("album listener event")
		}
	})
	if err := listener.Listen(albumsChannel); err != nil {
		listener.Close()
		return fmt.Errorf("listen %s: %w", albumsChannel, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go r.forward(ctx, listener)
	r.listener, r.stop = listener, cancel
	log.Debug().Str("channel", albumsChannel).Msg("album listener started")
	return nil
}

// forward relays notifications to the feed until ctx is done.
func (r *AlbumRepository) forward(ctx context.Context, listener *pq.Listener) {
	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		// A nil notification follows a reconnect; treat it as a change too.
		case _, ok := <-listener.Notify:
			if !ok {
				return
			}
			r.feed.Notify()
		case <-ticker.C:
			go listener.Ping()
		}
	}
}

// Close stops the shared listener. Open watch streams stay open but receive
// no further changes.
func (r *AlbumRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return nil
	}
	r.stop()
	err := r.listener.Close()
	r.listener, r.stop = nil, nil
	if err != nil {
		return fmt.Errorf("close album listener: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlbum(row rowScanner) (*database.Album, error) {
	var a database.Album
	if err := row.Scan(&a.ID, &a.Title, &a.StartDate, &a.EndDate, &a.CoverLocator, &a.PhotoCount, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
