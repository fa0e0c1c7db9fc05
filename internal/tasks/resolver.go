package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/services"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
	"github.com/charmbracelet/log"
)

// Resolver converts one free-text query into a track reference using a
// songs-then-videos fallback search strategy.
type Resolver struct {
	client services.Client
	limit  int
	logger *log.Logger
}

// NewResolver creates a Resolver. limit bounds each category search; <=0
// uses the service maximum.
func NewResolver(client services.Client, limit int, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{client: client, limit: limit, logger: logger}
}

// Resolve finds the best match for query. In perfect-match mode the query is
// wrapped in exact-phrase quotes for the remote search and only results whose
// title equals the query (case-insensitively) are accepted; otherwise the
// top-ranked result wins.
//
// A confident absence returns [shared.ErrTrackNotFound]; transport failures
// return the underlying error. Resolution never retries.
func (r *Resolver) Resolve(ctx context.Context, query models.SongQuery, perfectMatch bool) (*models.TrackReference, error) {
	text := string(query)
	if perfectMatch {
		text = fmt.Sprintf("%q", strings.Trim(text, `"`))
	}

	for _, category := range []services.SearchCategory{services.CategorySongs, services.CategoryVideos} {
		results, err := r.client.Search(ctx, text, category, r.limit)
		if err != nil {
			return nil, fmt.Errorf("search %s for %q: %w", category, query, err)
		}

		if track := r.pick(results, query, perfectMatch); track != nil {
			return track, nil
		}

		r.logger.Debug("no usable result, falling back", "query", query, "category", category)
	}

	return nil, fmt.Errorf("%w: %q", shared.ErrTrackNotFound, query)
}

// pick selects the first acceptable result: the top-ranked one, or in
// perfect-match mode the first exact (case-insensitive) title match.
func (r *Resolver) pick(results []services.SearchResult, query models.SongQuery, perfectMatch bool) *models.TrackReference {
	for _, result := range results {
		if perfectMatch && !shared.TitlesEqual(result.Title, string(query)) {
			continue
		}

		return &models.TrackReference{
			VideoID: result.VideoID,
			Title:   result.Title,
			Artist:  result.PrimaryArtist(),
		}
	}
	return nil
}
