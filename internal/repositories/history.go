package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
)

// RunRepository persists completed batch runs and their per-query outcomes.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a RunRepository with the given database connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run and its bucketed queries in one transaction. A zero
// ID and CreatedAt are filled in.
func (r *RunRepository) Create(record *models.RunRecord) error {
	if record.ID == "" {
		record.ID = shared.GenerateID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (
			id, playlist_id, playlist_title, input_file, total,
			successful, failed, not_found, duplicates, duration_ms, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.PlaylistID,
		record.PlaylistTitle,
		record.InputFile,
		record.Report.Total,
		len(record.Report.Successful),
		len(record.Report.Failed),
		len(record.Report.NotFound),
		len(record.Report.Duplicates),
		record.Duration.Milliseconds(),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	position := 0
	insertBucket := func(bucket string, queries []models.SongQuery) error {
		for _, query := range queries {
			_, err := tx.Exec(
				"INSERT INTO run_queries (run_id, position, query, bucket) VALUES (?, ?, ?, ?)",
				record.ID, position, string(query), bucket,
			)
			if err != nil {
				return fmt.Errorf("failed to insert run query: %w", err)
			}
			position++
		}
		return nil
	}

	for _, b := range []struct {
		name    string
		queries []models.SongQuery
	}{
		{bucketSuccessful, record.Report.Successful},
		{bucketFailed, record.Report.Failed},
		{bucketNotFound, record.Report.NotFound},
		{bucketDuplicates, record.Report.Duplicates},
	} {
		if err := insertBucket(b.name, b.queries); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List returns the most recent runs, newest first, without their query rows.
// limit <= 0 means no limit.
func (r *RunRepository) List(limit int) ([]models.RunRecord, error) {
	query := `
		SELECT id, playlist_id, playlist_title, COALESCE(input_file, ''),
		       total, duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC, id
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []models.RunRecord
	for rows.Next() {
		var record models.RunRecord
		var durationMS int64
		err := rows.Scan(
			&record.ID,
			&record.PlaylistID,
			&record.PlaylistTitle,
			&record.InputFile,
			&record.Report.Total,
			&durationMS,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, record)
	}

	return records, rows.Err()
}

// Get loads one run with its report buckets reassembled in stored order.
func (r *RunRepository) Get(id string) (*models.RunRecord, error) {
	var record models.RunRecord
	var durationMS int64
	err := r.db.QueryRow(`
		SELECT id, playlist_id, playlist_title, COALESCE(input_file, ''),
		       total, duration_ms, created_at
		FROM runs WHERE id = ?
	`, id).Scan(
		&record.ID,
		&record.PlaylistID,
		&record.PlaylistTitle,
		&record.InputFile,
		&record.Report.Total,
		&durationMS,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	record.Duration = time.Duration(durationMS) * time.Millisecond

	rows, err := r.db.Query(
		"SELECT query, bucket FROM run_queries WHERE run_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load run queries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var text, bucket string
		if err := rows.Scan(&text, &bucket); err != nil {
			return nil, fmt.Errorf("failed to scan run query: %w", err)
		}

		query := models.SongQuery(text)
		switch bucket {
		case bucketSuccessful:
			record.Report.Successful = append(record.Report.Successful, query)
		case bucketFailed:
			record.Report.Failed = append(record.Report.Failed, query)
		case bucketNotFound:
			record.Report.NotFound = append(record.Report.NotFound, query)
		case bucketDuplicates:
			record.Report.Duplicates = append(record.Report.Duplicates, query)
		default:
			return nil, fmt.Errorf("unknown bucket %q for run %s", bucket, id)
		}
	}

	return &record, rows.Err()
}
