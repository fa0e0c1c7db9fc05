package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/Jokaes/txt-to-youtube-music/internal/services"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
)

// SetupConfig writes a starter configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%w: %s already exists (use --force to overwrite)", shared.ErrInvalidFlag, path)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Edit the [auth] section, then run 'setup auth' or 'setup oauth'.\n")
	return nil
}

// SetupAuth configures YouTube Music authentication from browser headers.
//
// Accepts a cURL command copied from music.youtube.com DevTools and writes
// browser.json for the proxy to consume.
func (r *Runner) SetupAuth(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidFlag)
	}

	r.logger.Info("parsing cURL command for YouTube Music headers")

	var headers *shared.CurlHeaders
	var err error
	if curlFile != "" {
		headers, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		headers, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	if err := headers.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	config := r.loadConfig(cmd)
	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = config.Auth.BrowserFile
	}
	if outputPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		outputPath = filepath.Join(home, ".txt2ytm", "browser.json")
	}

	if err := services.WriteBrowserAuth(headers, outputPath); err != nil {
		return err
	}

	r.logger.Info("browser.json saved", "path", outputPath)
	r.writePlain("✓ YouTube Music authentication configured\n")
	r.writePlain("Auth file saved to: %s\n", outputPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Point [auth] browser_file in config.toml at \"%s\"\n", outputPath)
	r.writePlain("2. Run 'search \"your song\"' to test authentication\n")
	return nil
}

// SetupOAuth runs the Google OAuth device flow and stores the token.
func (r *Runner) SetupOAuth(ctx context.Context, cmd *cli.Command) error {
	clientID := cmd.String("client-id")
	if clientID == "" {
		clientID = os.Getenv("YTM_CLIENT_ID")
	}
	clientSecret := cmd.String("client-secret")
	if clientSecret == "" {
		clientSecret = os.Getenv("YTM_CLIENT_SECRET")
	}
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: OAuth client credentials (flags or YTM_CLIENT_ID/YTM_CLIENT_SECRET)", shared.ErrMissingConfig)
	}

	oauthConfig := services.NewOAuthConfig(clientID, clientSecret)

	token, err := services.DeviceFlow(ctx, oauthConfig, func(verificationURL, userCode string) {
		r.writePlain("Visit %s and enter code: %s\n", verificationURL, userCode)
		if !cmd.Bool("no-browser") {
			if err := shared.OpenBrowser(verificationURL); err != nil {
				r.logger.Debug("could not open browser", "error", err)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	config := r.loadConfig(cmd)
	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = config.Auth.OAuthFile
	}
	if outputPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		outputPath = filepath.Join(home, ".txt2ytm", "oauth.json")
	}

	if err := services.WriteOAuthToken(token, outputPath); err != nil {
		return err
	}

	r.logger.Info("oauth.json saved", "path", outputPath)
	r.writePlain("✓ OAuth token saved to: %s\n", outputPath)
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	r.logger.Info("initializing database", "path", config.Database.Path)
	db, err := shared.NewDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back most recent migration")
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.writePlain("✓ Rolled back most recent migration\n")
		return nil
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	return nil
}
