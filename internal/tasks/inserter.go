package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/services"
	"github.com/charmbracelet/log"
)

const (
	defaultMaxRetries = 2
	defaultRetryDelay = 6 * time.Second
)

// Inserter adds resolved tracks to the target playlist with duplicate
// suppression and bounded retry on remote conflicts.
type Inserter struct {
	client     services.Client
	maxRetries int
	retryDelay time.Duration
	logger     *log.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewInserter creates an Inserter. maxRetries < 0 and retryDelay <= 0 fall
// back to the defaults (2 retries, 6s base delay).
func NewInserter(client services.Client, maxRetries int, retryDelay time.Duration, logger *log.Logger) *Inserter {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Inserter{
		client:     client,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
		sleep:      sleepWithContext,
	}
}

// Insert adds track to target. When allowDuplicates is false and the track
// was already inserted this run, it returns Duplicate without a remote call;
// the duplicates flag is also forwarded remotely so the service can apply its
// own policy.
//
// HTTP 409 conflicts are retried up to the configured budget with linearly
// growing delays (retryDelay*1, retryDelay*2, ...). Every other error class
// is terminal for the item. The registry is only mutated on a confirmed
// success.
func (i *Inserter) Insert(ctx context.Context, track models.TrackReference, target models.PlaylistTarget, registry *models.Registry, allowDuplicates bool) models.Outcome {
	if !allowDuplicates && registry.Contains(track.VideoID) {
		return models.Duplicate
	}

	for attempt := 0; ; {
		resp, err := i.client.AddPlaylistItems(ctx, target.ID, []string{track.VideoID}, allowDuplicates)
		if err == nil {
			return i.interpret(resp, track, registry)
		}

		var apiErr *services.APIError
		if errors.As(err, &apiErr) && apiErr.IsConflict() && attempt < i.maxRetries {
			attempt++
			wait := i.retryDelay * time.Duration(attempt)
			i.logger.Info("conflict detected, retrying",
				"track", track.Display(), "wait", wait, "attempt", attempt, "max_retries", i.maxRetries)
			if sleepErr := i.sleep(ctx, wait); sleepErr != nil {
				i.logger.Warn("retry wait aborted", "track", track.Display(), "err", sleepErr)
				return models.Failure
			}
			continue
		}

		i.logger.Error("failed to add track", "track", track.Display(), "err", err)
		return models.Failure
	}
}

// interpret applies the optimistic success contract: an explicit succeeded
// marker is a confirmed success, any other non-empty payload is assumed
// successful (the response schema is not strictly documented), and an empty
// payload without a transport error is a failure.
func (i *Inserter) interpret(resp *services.AddItemsResponse, track models.TrackReference, registry *models.Registry) models.Outcome {
	switch {
	case resp.Succeeded():
		registry.Add(track.VideoID)
		return models.Success
	case !resp.Empty():
		i.logger.Warn("unexpected add response, assuming success", "track", track.Display(), "response", string(resp.Raw))
		return models.Success
	default:
		i.logger.Error("empty add response without error", "track", track.Display())
		return models.Failure
	}
}

// sleepWithContext blocks for d or until ctx is done, whichever comes first.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
