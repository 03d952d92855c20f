package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

const trackColumns = `id, sequence, track_id, title, artist, image_url, audio_url, duration, play_count, created_at, updated_at`

// TrackRepository implements models.Repository[*models.CachedTrack] for the track metadata cache.
//
// Rows are keyed by a generated id; track_id (the API id) is unique so each track is cached once.
type TrackRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.CachedTrack] = (*TrackRepository)(nil)

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.CachedTrack] into the database with generated ID and sequence
func (r *TrackRepository) Create(track *models.CachedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	track.SetID(id)
	track.SetSequence(sequence)

	t := track.Track()
	query := `INSERT INTO tracks (` + trackColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query,
		id,
		sequence,
		string(t.ID),
		t.Title,
		t.Artist,
		t.ImageURL,
		t.AudioURL,
		t.Duration,
		t.PlayCount,
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a cached track by its row ID
func (r *TrackRepository) Get(id string) (*models.CachedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByTrackID retrieves a cached track by the API track id
func (r *TrackRepository) GetByTrackID(trackID models.TrackID) (*models.CachedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE track_id = ?`
	return r.scanOne(r.db.QueryRow(query, string(trackID)))
}

// Update refreshes the metadata of an existing cached track
func (r *TrackRepository) Update(track *models.CachedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)
	t := track.Track()

	query := `
		UPDATE tracks
		SET title = ?, artist = ?, image_url = ?, audio_url = ?, duration = ?, play_count = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, t.Title, t.Artist, t.ImageURL, t.AudioURL, t.Duration, t.PlayCount, now, track.ID())
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, track.ID())
	}

	return nil
}

// IncrementPlayCount bumps the locally cached play count after a play notification.
func (r *TrackRepository) IncrementPlayCount(trackID models.TrackID) error {
	result, err := r.db.Exec(
		"UPDATE tracks SET play_count = play_count + 1, updated_at = ? WHERE track_id = ?",
		time.Now(), string(trackID),
	)
	if err != nil {
		return fmt.Errorf("failed to increment play count: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
	}
	return nil
}

// Delete removes a cached track by row ID
func (r *TrackRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}

	return nil
}

// List retrieves cached tracks in insertion order.
//
// Supported criteria: "artist" (exact match) and "limit" (int).
func (r *TrackRepository) List(criteria map[string]any) ([]*models.CachedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE 1 = 1`
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.CachedTrack
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// Tracks returns the cached tracks as plain [models.Track] values, e.g. to build an offline queue.
func (r *TrackRepository) Tracks(limit int) ([]models.Track, error) {
	cached, err := r.List(map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(cached))
	for _, c := range cached {
		tracks = append(tracks, c.Track())
	}
	return tracks, nil
}

func (r *TrackRepository) scanOne(row *sql.Row) (*models.CachedTrack, error) {
	track, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrTrackNotFound
	}
	return track, err
}

type scanner interface {
	Scan(dest ...any) error
}

// scanTrack scans a row from either [sql.Row] or [sql.Rows] into a [models.CachedTrack]
func scanTrack(s scanner) (*models.CachedTrack, error) {
	var (
		id        string
		sequence  int
		trackID   string
		createdAt time.Time
		updatedAt time.Time
		t         models.Track
	)

	err := s.Scan(&id, &sequence, &trackID, &t.Title, &t.Artist, &t.ImageURL, &t.AudioURL, &t.Duration, &t.PlayCount, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	t.ID = models.TrackID(trackID)
	track := models.NewCachedTrack(sequence, t)
	track.SetID(id)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)

	return track, nil
}
