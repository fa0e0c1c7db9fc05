package repositories

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/charmbracelet/log"
)

// ResolutionRepository implements tasks.ResolutionCacher on SQLite.
//
// The cache is strictly an accelerator: every failure is logged at debug
// level and surfaced to the caller as a miss, never as an error. Entries are
// keyed by (query, perfect_match) so loose and exact resolutions of the same
// text never collide.
type ResolutionRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// NewResolutionRepository creates a ResolutionRepository with the given
// database connection.
func NewResolutionRepository(db *sql.DB, logger *log.Logger) *ResolutionRepository {
	if logger == nil {
		logger = log.Default()
	}
	return &ResolutionRepository{db: db, logger: logger}
}

// Lookup returns the cached resolution of query, if any.
func (r *ResolutionRepository) Lookup(query string, perfectMatch bool) (*models.TrackReference, bool) {
	row := r.db.QueryRow(
		"SELECT video_id, title, COALESCE(artist, '') FROM resolutions WHERE query = ? AND perfect_match = ?",
		query, boolToInt(perfectMatch),
	)

	var track models.TrackReference
	if err := row.Scan(&track.VideoID, &track.Title, &track.Artist); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug("resolution cache lookup failed", "query", query, "err", err)
		}
		return nil, false
	}

	return &track, true
}

// Store records a resolution for future runs. Re-storing an existing key is
// a no-op.
func (r *ResolutionRepository) Store(query string, perfectMatch bool, track models.TrackReference) {
	_, err := r.db.Exec(
		"INSERT INTO resolutions (query, perfect_match, video_id, title, artist) VALUES (?, ?, ?, ?, ?)",
		query, boolToInt(perfectMatch), track.VideoID, track.Title, track.Artist,
	)
	if err != nil && !strings.Contains(err.Error(), "UNIQUE constraint") {
		r.logger.Debug("resolution cache store failed", "query", query, "err", err)
	}
}

// Count returns the number of cached resolutions.
func (r *ResolutionRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM resolutions").Scan(&count)
	return count, err
}

// Clear drops every cached resolution.
func (r *ResolutionRepository) Clear() error {
	_, err := r.db.Exec("DELETE FROM resolutions")
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
