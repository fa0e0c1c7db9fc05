// package tasks implements the song-resolution and playlist-population pipeline.
//
// The core abstraction is BatchEngine, which drives resolution and insertion
// for every query in a run. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/services"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
	"github.com/charmbracelet/log"
)

// BatchOpts are the per-run policy knobs, resolved from flags, prompts, and
// config before the batch starts so the engine itself stays headless.
type BatchOpts struct {
	AllowDuplicates bool
	PerfectMatch    bool
}

// ResolutionCacher persists query → track resolutions across runs.
// Implementations must treat storage errors as non-fatal; a cache miss and a
// broken cache look the same to the engine.
type ResolutionCacher interface {
	// Lookup returns the cached resolution of query, if any.
	Lookup(query string, perfectMatch bool) (*models.TrackReference, bool)

	// Store records a resolution for future runs.
	Store(query string, perfectMatch bool, track models.TrackReference)
}

// BatchEngine defines the batch orchestration operations.
type BatchEngine interface {
	// CreateTarget creates the run's destination playlist. A failure here is
	// fatal to the run; no query is processed.
	CreateTarget(ctx context.Context, title, description, privacy string) (models.PlaylistTarget, error)

	// Run processes every query in input order, resolving and inserting each
	// one, and returns a complete accounting. One query's failure never
	// aborts the batch; only context cancellation does.
	Run(ctx context.Context, queries []models.SongQuery, target models.PlaylistTarget, opts BatchOpts, progress chan<- ProgressUpdate) (*models.RunReport, error)
}

// PlaylistEngine implements BatchEngine against a [services.Client].
type PlaylistEngine struct {
	client   services.Client
	resolver *Resolver
	inserter *Inserter
	cache    ResolutionCacher
	logger   *log.Logger
}

// EngineOpts configures a PlaylistEngine.
type EngineOpts struct {
	Client      services.Client
	SearchLimit int
	MaxRetries  int
	RetryDelay  time.Duration
	Cache       ResolutionCacher // Optional
	Logger      *log.Logger
}

// NewPlaylistEngine creates a PlaylistEngine with the provided client and policies.
func NewPlaylistEngine(opts EngineOpts) *PlaylistEngine {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &PlaylistEngine{
		client:   opts.Client,
		resolver: NewResolver(opts.Client, opts.SearchLimit, opts.Logger),
		inserter: NewInserter(opts.Client, opts.MaxRetries, opts.RetryDelay, opts.Logger),
		cache:    opts.Cache,
		logger:   opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// CreateTarget creates the destination playlist.
func (e *PlaylistEngine) CreateTarget(ctx context.Context, title, description, privacy string) (models.PlaylistTarget, error) {
	if e.client == nil {
		return models.PlaylistTarget{}, fmt.Errorf("%w: client not initialized", shared.ErrServiceUnavailable)
	}
	if !shared.ValidPrivacy(privacy) {
		return models.PlaylistTarget{}, fmt.Errorf("%w: privacy %q", shared.ErrInvalidInput, privacy)
	}

	id, err := e.client.CreatePlaylist(ctx, title, description, privacy)
	if err != nil {
		return models.PlaylistTarget{}, fmt.Errorf("%w: %v", shared.ErrPlaylistCreate, err)
	}

	e.logger.Info("playlist created", "id", id, "title", title, "privacy", privacy)
	return models.PlaylistTarget{ID: id, Title: title}, nil
}

// Run processes queries sequentially. Input order determines playlist track
// order and duplicate precedence.
func (e *PlaylistEngine) Run(ctx context.Context, queries []models.SongQuery, target models.PlaylistTarget, opts BatchOpts, progress chan<- ProgressUpdate) (*models.RunReport, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: client not initialized", shared.ErrServiceUnavailable)
	}

	total := len(queries)
	report := &models.RunReport{Total: total}
	registry := models.NewRegistry()

	e.sendProgress(progress, createPlaylistUpdate(target))

	for idx, query := range queries {
		if err := ctx.Err(); err != nil {
			// Whole-run abort: the partial playlist remains remotely; the
			// partial report is discarded.
			return nil, fmt.Errorf("run aborted after %d of %d queries: %w", idx, total, err)
		}

		step := idx + 1
		e.sendProgress(progress, resolvingUpdate(step, total, query))

		track, err := e.resolve(ctx, query, opts.PerfectMatch)
		switch {
		case errors.Is(err, shared.ErrTrackNotFound):
			report.NotFound = append(report.NotFound, query)
			e.sendProgress(progress, notFoundUpdate(step, total, query))
			continue
		case err != nil:
			e.logger.Error("resolution failed", "query", query, "err", err)
			report.Failed = append(report.Failed, query)
			e.sendProgress(progress, failedUpdate(step, total, query))
			continue
		case track.VideoID == "":
			// Remote payload carried a result without a usable identifier.
			e.logger.Error("resolution failed", "query", query, "err", shared.ErrMalformedResult)
			report.Failed = append(report.Failed, query)
			e.sendProgress(progress, failedUpdate(step, total, query))
			continue
		}

		outcome := e.inserter.Insert(ctx, *track, target, registry, opts.AllowDuplicates)
		switch outcome {
		case models.Success:
			report.Successful = append(report.Successful, query)
			e.sendProgress(progress, addedUpdate(step, total, query, track))
		case models.Duplicate:
			report.Duplicates = append(report.Duplicates, query)
			e.sendProgress(progress, duplicateUpdate(step, total, query, track))
		default:
			report.Failed = append(report.Failed, query)
			e.sendProgress(progress, failedUpdate(step, total, query))
		}
	}

	e.logger.Info("batch complete",
		"total", report.Total,
		"successful", len(report.Successful),
		"failed", len(report.Failed),
		"not_found", len(report.NotFound),
		"duplicates", len(report.Duplicates),
		"unique_tracks", registry.Len())

	e.sendProgress(progress, batchDoneUpdate(total, report))
	return report, nil
}

// resolve consults the resolution cache around the resolver. Cache failures
// are invisible here; a broken cache only costs a remote search.
func (e *PlaylistEngine) resolve(ctx context.Context, query models.SongQuery, perfectMatch bool) (*models.TrackReference, error) {
	if e.cache != nil {
		if track, ok := e.cache.Lookup(string(query), perfectMatch); ok {
			e.logger.Debug("resolution cache hit", "query", query)
			return track, nil
		}
	}

	track, err := e.resolver.Resolve(ctx, query, perfectMatch)
	if err != nil {
		return nil, err
	}

	if e.cache != nil && track.VideoID != "" {
		e.cache.Store(string(query), perfectMatch, *track)
	}

	return track, nil
}
