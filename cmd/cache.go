package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/Jokaes/txt-to-youtube-music/internal/repositories"
)

// CacheStatus reports how many query resolutions are cached locally.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewResolutionRepository(db, r.logger)
	count, err := repo.Count()
	if err != nil {
		return err
	}

	r.writePlain("Cached resolutions: %d\n", count)
	return nil
}

// CacheClear drops every cached resolution. Runs afterwards resolve every
// query remotely again.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewResolutionRepository(db, r.logger)
	if err := repo.Clear(); err != nil {
		return err
	}

	r.logger.Info("resolution cache cleared")
	r.writePlain("✓ Resolution cache cleared\n")
	return nil
}
