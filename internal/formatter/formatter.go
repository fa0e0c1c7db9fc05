// package formatter renders run results for terminal output and file export
// (plain text summary, duplicates side file, CSV).
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
)

// DefaultDuplicatesFile is where duplicate queries are written when the
// caller gives no path.
const DefaultDuplicatesFile = "songs_duplicates.txt"

// Summary renders the end-of-run report block printed to the terminal.
func Summary(record *models.RunRecord) []byte {
	var buf bytes.Buffer
	report := record.Report

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", record.PlaylistTitle))
	buf.WriteString(fmt.Sprintf("URL: %s\n", record.PlaylistURL()))
	if record.Duration > 0 {
		buf.WriteString(fmt.Sprintf("Elapsed: %s\n", shared.FormatElapsed(record.Duration)))
	}
	buf.WriteString("\n")

	buf.WriteString(fmt.Sprintf("Processed: %d\n", report.Total))
	buf.WriteString(fmt.Sprintf("  Added:      %d\n", len(report.Successful)))
	buf.WriteString(fmt.Sprintf("  Failed:     %d\n", len(report.Failed)))
	buf.WriteString(fmt.Sprintf("  Not found:  %d\n", len(report.NotFound)))
	buf.WriteString(fmt.Sprintf("  Duplicates: %d\n", len(report.Duplicates)))

	writeBucket(&buf, "Failed", report.Failed)
	writeBucket(&buf, "Not found", report.NotFound)
	writeBucket(&buf, "Duplicates", report.Duplicates)

	return buf.Bytes()
}

// writeBucket lists a non-empty bucket's queries under a heading. Successful
// queries are omitted; the playlist itself is the record of those.
func writeBucket(buf *bytes.Buffer, heading string, queries []models.SongQuery) {
	if len(queries) == 0 {
		return
	}

	buf.WriteString(fmt.Sprintf("\n%s:\n", heading))
	for _, query := range queries {
		buf.WriteString(fmt.Sprintf("  - %s\n", query))
	}
}

// DuplicatesText renders duplicate queries one per line, suitable for reuse
// as an input file.
func DuplicatesText(report models.RunReport) []byte {
	var buf bytes.Buffer
	for _, query := range report.Duplicates {
		buf.WriteString(string(query))
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// WriteDuplicatesFile writes the duplicates side file and returns its path.
// No file is written when the run had no duplicates; the returned path is
// empty in that case.
func WriteDuplicatesFile(report models.RunReport, path string) (string, error) {
	if len(report.Duplicates) == 0 {
		return "", nil
	}
	if path == "" {
		path = DefaultDuplicatesFile
	}

	if err := os.WriteFile(path, DuplicatesText(report), 0644); err != nil {
		return "", fmt.Errorf("failed to write duplicates file: %w", err)
	}

	return path, nil
}

// ExportToCSV converts a run record to CSV with columns: Position, Query,
// Outcome. Rows appear in bucket order: added, failed, not found, duplicates.
func ExportToCSV(record *models.RunRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "Query", "Outcome"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	position := 0
	writeRows := func(outcome string, queries []models.SongQuery) error {
		for _, query := range queries {
			position++
			if err := writer.Write([]string{strconv.Itoa(position), string(query), outcome}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	}

	report := record.Report
	for _, b := range []struct {
		outcome string
		queries []models.SongQuery
	}{
		{"added", report.Successful},
		{"failed", report.Failed},
		{"not_found", report.NotFound},
		{"duplicate", report.Duplicates},
	} {
		if err := writeRows(b.outcome, b.queries); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSVExport writes a run's CSV export and returns the path. The
// filename defaults to run_{id}.csv.
func WriteCSVExport(record *models.RunRecord, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("run_%s.csv", record.ID)
	}

	data, err := ExportToCSV(record)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}
