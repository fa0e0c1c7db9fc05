package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Jokaes/txt-to-youtube-music/internal/formatter"
	"github.com/Jokaes/txt-to-youtube-music/internal/repositories"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
)

// HistoryList prints recent runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := repositories.NewRunRepository(db).List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(records) == 0 {
		r.writePlain("No runs recorded yet.\n")
		return nil
	}

	for _, record := range records {
		r.writePlain("%s  %s  %s (%d songs, %s)\n",
			record.ID,
			record.CreatedAt.Format("2006-01-02 15:04"),
			record.PlaylistTitle,
			record.Report.Total,
			shared.FormatElapsed(record.Duration),
		)
	}
	return nil
}

// HistoryShow prints one run's full report.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	record, err := repositories.NewRunRepository(db).Get(id)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Run %s (%s)", record.ID, record.CreatedAt.Format("2006-01-02 15:04")))
	r.writePlain("%s", formatter.Summary(record))
	return nil
}

// HistoryExport writes one run's report as CSV.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run id", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	record, err := repositories.NewRunRepository(db).Get(id)
	if err != nil {
		return err
	}

	path, err := formatter.WriteCSVExport(record, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("run exported", "id", id, "path", path)
	r.writePlain("✓ Exported to %s\n", path)
	return nil
}
