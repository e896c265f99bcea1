package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/logger"
)

// AlbumRepository provides MariaDB-backed album storage. Change notifications
// are in-process only: writes from other processes are seen on the next List.
type AlbumRepository struct {
	pool *Pool
	feed *database.ChangeFeed
}

// NewAlbumRepository creates a new MariaDB album repository.
func NewAlbumRepository(pool *Pool) *AlbumRepository {
	return &AlbumRepository{pool: pool, feed: database.NewChangeFeed()}
}

const albumColumns = `id, title, start_date, end_date, cover_locator, photo_count, created_at`

// Get retrieves an album by id.
func (r *AlbumRepository) Get(ctx context.Context, id string) (*database.Album, error) {
	var a database.Album
	err := r.pool.db.QueryRowContext(ctx, "SELECT "+albumColumns+" FROM albums WHERE id = ?", id).
		Scan(&a.ID, &a.Title, &a.StartDate, &a.EndDate, &a.CoverLocator, &a.PhotoCount, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	return &a, nil
}

// List returns albums newest first, optionally filtered by title.
func (r *AlbumRepository) List(ctx context.Context, query string) ([]database.Album, error) {
	rows, err := r.pool.db.QueryContext(ctx, "SELECT "+albumColumns+" FROM albums ORDER BY start_date DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	albums := make([]database.Album, 0)
	for rows.Next() {
		var a database.Album
		if err := rows.Scan(&a.ID, &a.Title, &a.StartDate, &a.EndDate, &a.CoverLocator, &a.PhotoCount, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return database.FilterAlbums(albums, query), nil
}

// Save inserts or replaces an album.
func (r *AlbumRepository) Save(ctx context.Context, a database.Album) error {
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO albums (`+albumColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			title = VALUES(title),
			start_date = VALUES(start_date),
			end_date = VALUES(end_date),
			cover_locator = VALUES(cover_locator),
			photo_count = VALUES(photo_count)
	`, a.ID, a.Title, a.StartDate.UTC(), a.EndDate.UTC(), a.CoverLocator, a.PhotoCount, a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save album: %w", err)
	}
	r.feed.Notify()
	return nil
}

// Delete removes an album.
func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.db.ExecContext(ctx, "DELETE FROM albums WHERE id = ?", id)
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
	r.feed.Notify()
	return nil
}

// Watch streams the album list on subscribe and after every write through this repository.
func (r *AlbumRepository) Watch(ctx context.Context) (<-chan []database.Album, error) {
	changes, unsubscribe := r.feed.Subscribe()
	listAll := func(ctx context.Context) ([]database.Album, error) { return r.List(ctx, "") }
	return database.StreamAlbums(ctx, logger.Named("mariadb"), listAll, changes, unsubscribe), nil
}
