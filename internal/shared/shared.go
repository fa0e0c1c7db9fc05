// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewRunLogger creates a [log.Logger] that writes to a timestamped file under
// dir (created if missing), returning the logger, the file path, and a close
// function. Used by long-running commands so the terminal stays reserved for
// progress output.
func NewRunLogger(dir string) (*log.Logger, string, func() error, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("txt_to_ytmusic_%s.log", time.Now().Format("20060102_150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true})
	return logger, path, f.Close, nil
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// Timestamp returns the current local time formatted as yymmddhhmmss,
// used for default playlist titles and descriptions.
func Timestamp() string {
	return time.Now().Format("060102150405")
}

// NormalizeTitle lowercases a track title and collapses runs of whitespace,
// producing the key used for exact-match comparison.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// TitlesEqual reports whether two track titles are equal ignoring case and
// surrounding/internal whitespace differences.
func TitlesEqual(a, b string) bool {
	return NormalizeTitle(a) == NormalizeTitle(b)
}

// FormatElapsed renders a duration as "M min. S sec." or "S sec." for run summaries.
func FormatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	minutes := total / 60
	seconds := total % 60
	if minutes > 0 {
		return fmt.Sprintf("%d min. %d sec.", minutes, seconds)
	}
	return fmt.Sprintf("%d sec.", seconds)
}
