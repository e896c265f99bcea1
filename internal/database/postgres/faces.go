package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/lifeline/internal/faces"
	"github.com/kozaktomas/lifeline/internal/photo"
)

// FaceRepository provides PostgreSQL-backed face caching.
// Features are stored twice: as a pgvector vector(3) for similarity queries and
// as an exact DOUBLE PRECISION[] that clustering reads back.
type FaceRepository struct {
	pool *Pool
}

// NewFaceRepository creates a new PostgreSQL face repository.
func NewFaceRepository(pool *Pool) *FaceRepository {
	return &FaceRepository{pool: pool}
}

// GetFaces retrieves all faces for a photo.
func (r *FaceRepository) GetFaces(ctx context.Context, photoID string) ([]faces.FaceRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT photo_id, face_id, locator, features, features_exact
		FROM faces
		WHERE photo_id = $1
		ORDER BY face_index
	`, photoID)
	if err != nil {
		return nil, fmt.Errorf("query faces: %w", err)
	}
	defer rows.Close()

	return scanFaces(rows)
}

// LoadFaces returns the cached faces for a photo and whether detection has run
// for it. A photo cached under a different fingerprint counts as not processed.
func (r *FaceRepository) LoadFaces(ctx context.Context, p photo.Photo) ([]faces.FaceRecord, bool, error) {
	var fingerprint string
	err := r.pool.QueryRow(
		ctx, "SELECT fingerprint FROM faces_processed WHERE photo_id = $1", p.ID,
	).Scan(&fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load faces processed: %w", err)
	}
	if fingerprint != p.Fingerprint() {
		return nil, false, nil
	}

	records, err := r.GetFaces(ctx, p.ID)
	if err != nil {
		return nil, false, err
	}
	return records, true, nil
}

// IsProcessed checks if face detection has been run for a photo.
func (r *FaceRepository) IsProcessed(ctx context.Context, photoID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(
		ctx, "SELECT EXISTS(SELECT 1 FROM faces_processed WHERE photo_id = $1)", photoID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check faces processed: %w", err)
	}
	return exists, nil
}

// Count returns the total number of faces stored.
func (r *FaceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM faces").Scan(&count); err != nil {
		return 0, fmt.Errorf("count faces: %w", err)
	}
	return count, nil
}

// CountProcessed returns how many of the given photos have been processed.
func (r *FaceRepository) CountProcessed(ctx context.Context, photoIDs []string) (int, error) {
	if len(photoIDs) == 0 {
		return 0, nil
	}
	var count int
	err := r.pool.QueryRow(
		ctx, "SELECT COUNT(*) FROM faces_processed WHERE photo_id = ANY($1)", pq.Array(photoIDs),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count processed photos: %w", err)
	}
	return count, nil
}

// SaveFaces stores the faces of a photo, replacing any existing ones, and marks
// the photo as processed.
func (r *FaceRepository) SaveFaces(ctx context.Context, p photo.Photo, records []faces.FaceRecord) error {
	photoID := p.ID
	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM faces WHERE photo_id = $1", photoID); err != nil {
		return fmt.Errorf("delete existing faces: %w", err)
	}

	for i, f := range records {
		vec, exact := encodeFeatures(f)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO faces (photo_id, face_index, face_id, locator, features, features_exact)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, photoID, i, f.ID, f.Locator, vec, exact)
		if err != nil {
			return fmt.Errorf("insert face %s: %w", f.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO faces_processed (photo_id, face_count, fingerprint, processed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (photo_id) DO UPDATE SET
			face_count = EXCLUDED.face_count,
			fingerprint = EXCLUDED.fingerprint,
			processed_at = NOW()
	`, photoID, len(records), p.Fingerprint())
	if err != nil {
		return fmt.Errorf("mark photo processed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanFaces(rows *sql.Rows) ([]faces.FaceRecord, error) {
	var result []faces.FaceRecord
	for rows.Next() {
		var (
			f     faces.FaceRecord
			vec   pgvector.Vector
			exact []float64
		)
		if err := rows.Scan(&f.PhotoID, &f.ID, &f.Locator, &vec, pq.Array(&exact)); err != nil {
			return nil, fmt.Errorf("scan face: %w", err)
		}
		decodeFeatures(&f, vec, exact)
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faces: %w", err)
	}
	return result, nil
}

// encodeFeatures returns the indexable float32 vector and the exact values of a face.
func encodeFeatures(f faces.FaceRecord) (pgvector.Vector, pq.Float64Array) {
	features := f.Features()
	vec := pgvector.NewVector([]float32{float32(features[0]), float32(features[1]), float32(features[2])})
	return vec, pq.Float64Array(features[:])
}

// decodeFeatures prefers the exact column; rows written before it existed fall
// back to the float32 vector.
func decodeFeatures(f *faces.FaceRecord, vec pgvector.Vector, exact []float64) {
	if len(exact) == 3 {
		f.CenterX, f.CenterY, f.Size = exact[0], exact[1], exact[2]
		return
	}
	if s := vec.Slice(); len(s) == 3 {
		f.CenterX, f.CenterY, f.Size = float64(s[0]), float64(s[1]), float64(s[2])
	}
}
