package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
	"github.com/Jokaes/txt-to-youtube-music/internal/tasks"
)

// Search resolves one query the same way a run would and prints the match.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	client, err := r.resolveClient(cmd, config)
	if err != nil {
		return err
	}

	resolver := tasks.NewResolver(client, config.Search.Limit, r.logger)
	perfectMatch := cmd.Bool("perfect-match") || config.Search.PerfectMatch

	track, err := resolver.Resolve(ctx, models.SongQuery(query), perfectMatch)
	if errors.Is(err, shared.ErrTrackNotFound) {
		r.writePlain("No match for %q\n", query)
		return nil
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]string{
			"video_id": track.VideoID,
			"title":    track.Title,
			"artist":   track.Artist,
			"url":      "https://music.youtube.com/watch?v=" + track.VideoID,
		}, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", track.Display())
	r.writePlain("https://music.youtube.com/watch?v=%s\n", track.VideoID)
	return nil
}
