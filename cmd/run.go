package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/AlecAivazis/survey/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/Jokaes/txt-to-youtube-music/internal/formatter"
	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/repositories"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
	"github.com/Jokaes/txt-to-youtube-music/internal/tasks"
	"github.com/Jokaes/txt-to-youtube-music/internal/ui"
)

// runOptions are the fully resolved per-run settings, gathered from flags,
// config and prompts before the batch engine starts.
type runOptions struct {
	title           string
	description     string
	privacy         string
	allowDuplicates bool
	perfectMatch    bool
}

// Run reads song queries from a file, creates a playlist and fills it.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: song file path", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)

	lines, err := shared.ReadSongQueries(path)
	if err != nil {
		return err
	}
	queries := models.Queries(lines)
	r.logger.Info("loaded song queries", "file", path, "count", len(queries))

	client, err := r.resolveClient(cmd, config)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	opts, err := r.gatherRunOptions(cmd, config, path)
	if err != nil {
		return err
	}

	// Terminal output belongs to the progress view; detailed logs go to a
	// timestamped file instead.
	runLogger, logPath, closeLog, err := shared.NewRunLogger(config.Logs.Dir)
	if err != nil {
		r.logger.Warn("file logging unavailable", "error", err)
		runLogger = r.logger
	} else {
		defer closeLog()
	}

	var cache tasks.ResolutionCacher
	var runs *repositories.RunRepository
	db, err := r.openDatabase(config)
	if err != nil {
		runLogger.Warn("database unavailable, continuing without cache and history", "error", err)
	} else {
		defer db.Close()
		if !cmd.Bool("no-cache") {
			cache = repositories.NewResolutionRepository(db, runLogger)
		}
		runs = repositories.NewRunRepository(db)
	}

	maxRetries := config.Insert.MaxRetries
	if cmd.IsSet("max-retries") {
		maxRetries = cmd.Int("max-retries")
	}
	retryDelaySeconds := config.Insert.RetryDelaySeconds
	if cmd.IsSet("retry-delay") {
		retryDelaySeconds = cmd.Int("retry-delay")
	}

	engine := tasks.NewPlaylistEngine(tasks.EngineOpts{
		Client:      client,
		SearchLimit: config.Search.Limit,
		MaxRetries:  maxRetries,
		RetryDelay:  time.Duration(retryDelaySeconds) * time.Second,
		Cache:       cache,
		Logger:      runLogger,
	})

	target, err := engine.CreateTarget(ctx, opts.title, opts.description, opts.privacy)
	if err != nil {
		return err
	}

	batch := tasks.BatchOpts{
		AllowDuplicates: opts.allowDuplicates,
		PerfectMatch:    opts.perfectMatch,
	}

	start := time.Now()
	buildRecord := func(report *models.RunReport) *models.RunRecord {
		return &models.RunRecord{
			PlaylistID:    target.ID,
			PlaylistTitle: target.Title,
			InputFile:     filepath.Base(path),
			Duration:      time.Since(start),
			Report:        *report,
		}
	}

	var record *models.RunRecord
	if cmd.Bool("plain") {
		record, err = r.runPlain(ctx, engine, queries, target, batch, buildRecord)
	} else {
		record, err = r.runTUI(ctx, engine, queries, target, batch, buildRecord)
	}
	if err != nil {
		return err
	}

	r.writePlainHeader("Run complete")
	r.writePlain("%s", formatter.Summary(record))

	if dupFile, err := formatter.WriteDuplicatesFile(record.Report, cmd.String("duplicates-file")); err != nil {
		r.logger.Warn("failed to write duplicates file", "error", err)
	} else if dupFile != "" {
		r.writePlain("\nSkipped duplicates written to %s\n", dupFile)
	}

	if runs != nil {
		if err := runs.Create(record); err != nil {
			r.logger.Warn("failed to save run history", "error", err)
		} else {
			r.writePlain("\nRun saved as %s (see 'history show %s')\n", record.ID, record.ID)
		}
	}

	if logPath != "" {
		r.writePlain("Log file: %s\n", logPath)
	}

	return nil
}

// runPlain drains progress into plain output lines while the engine works.
func (r *Runner) runPlain(
	ctx context.Context,
	engine *tasks.PlaylistEngine,
	queries []models.SongQuery,
	target models.PlaylistTarget,
	batch tasks.BatchOpts,
	buildRecord func(*models.RunReport) *models.RunRecord,
) (*models.RunRecord, error) {
	progress := make(chan tasks.ProgressUpdate, len(queries)+8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	report, err := engine.Run(ctx, queries, target, batch, progress)
	close(progress)
	<-done
	if err != nil {
		return nil, err
	}

	return buildRecord(report), nil
}

// runTUI runs the batch behind the interactive progress view.
func (r *Runner) runTUI(
	ctx context.Context,
	engine *tasks.PlaylistEngine,
	queries []models.SongQuery,
	target models.PlaylistTarget,
	batch tasks.BatchOpts,
	buildRecord func(*models.RunReport) *models.RunRecord,
) (*models.RunRecord, error) {
	// Quitting the view cancels the engine; the partial playlist stays remote.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewModel(ctx, len(queries), func(progress chan<- tasks.ProgressUpdate) (*models.RunRecord, error) {
		report, err := engine.Run(ctx, queries, target, batch, progress)
		if err != nil {
			return nil, err
		}
		return buildRecord(report), nil
	})

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("progress view failed: %w", err)
	}

	record, runErr := final.(*ui.Model).Record()
	if runErr != nil {
		return nil, runErr
	}
	if record == nil {
		return nil, fmt.Errorf("run aborted before completion")
	}
	return record, nil
}

// gatherRunOptions resolves title, description, privacy and duplicate policy.
// Flags win; missing values are prompted for unless --yes accepts defaults.
func (r *Runner) gatherRunOptions(cmd *cli.Command, config *shared.Config, path string) (runOptions, error) {
	stamp := shared.Timestamp()
	opts := runOptions{
		title:           cmd.String("title"),
		description:     cmd.String("description"),
		privacy:         cmd.String("privacy"),
		allowDuplicates: cmd.Bool("allow-duplicates") || config.Insert.AllowDuplicates,
		perfectMatch:    cmd.Bool("perfect-match") || config.Search.PerfectMatch,
	}

	defaults := runOptions{
		title:       fmt.Sprintf("TxtToYoutubeMusic_%s", stamp),
		description: fmt.Sprintf("Created from %s", filepath.Base(path)),
		privacy:     config.Playlist.Privacy,
	}
	if defaults.privacy == "" {
		defaults.privacy = "PRIVATE"
	}

	if cmd.Bool("yes") {
		if opts.title == "" {
			opts.title = defaults.title
		}
		if opts.description == "" {
			opts.description = defaults.description
		}
		if opts.privacy == "" {
			opts.privacy = defaults.privacy
		}
		return opts, r.validateRunOptions(opts)
	}

	if opts.title == "" {
		prompt := &survey.Input{Message: "Playlist title:", Default: defaults.title}
		if err := survey.AskOne(prompt, &opts.title); err != nil {
			return opts, fmt.Errorf("prompt aborted: %w", err)
		}
	}

	if opts.description == "" {
		prompt := &survey.Input{Message: "Playlist description:", Default: defaults.description}
		if err := survey.AskOne(prompt, &opts.description); err != nil {
			return opts, fmt.Errorf("prompt aborted: %w", err)
		}
	}

	if opts.privacy == "" {
		prompt := &survey.Select{
			Message: "Playlist privacy:",
			Options: []string{"PRIVATE", "UNLISTED", "PUBLIC"},
			Default: defaults.privacy,
		}
		if err := survey.AskOne(prompt, &opts.privacy); err != nil {
			return opts, fmt.Errorf("prompt aborted: %w", err)
		}
	}

	if !cmd.IsSet("allow-duplicates") && !config.Insert.AllowDuplicates {
		prompt := &survey.Confirm{Message: "Allow duplicate tracks?", Default: false}
		if err := survey.AskOne(prompt, &opts.allowDuplicates); err != nil {
			return opts, fmt.Errorf("prompt aborted: %w", err)
		}
	}

	return opts, r.validateRunOptions(opts)
}

func (r *Runner) validateRunOptions(opts runOptions) error {
	if opts.title == "" {
		return fmt.Errorf("%w: playlist title", shared.ErrInvalidInput)
	}
	if !shared.ValidPrivacy(opts.privacy) {
		return fmt.Errorf("%w: privacy %q", shared.ErrInvalidInput, opts.privacy)
	}
	return nil
}
