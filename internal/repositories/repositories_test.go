package repositories

import (
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
	"github.com/Jokaes/txt-to-youtube-music/internal/shared"
	"github.com/charmbracelet/log"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestResolutionRepository(t *testing.T) {
	track := models.TrackReference{VideoID: "vid1", Title: "Song", Artist: "Artist"}

	t.Run("miss on empty cache", func(t *testing.T) {
		repo := NewResolutionRepository(setupTestDB(t), quietLogger())

		if _, ok := repo.Lookup("nothing here", false); ok {
			t.Error("expected cache miss")
		}
	})

	t.Run("store then lookup", func(t *testing.T) {
		repo := NewResolutionRepository(setupTestDB(t), quietLogger())

		repo.Store("some song", false, track)

		got, ok := repo.Lookup("some song", false)
		if !ok {
			t.Fatal("expected cache hit")
		}
		if *got != track {
			t.Errorf("expected %+v, got %+v", track, *got)
		}
	})

	t.Run("perfect match is a separate key", func(t *testing.T) {
		repo := NewResolutionRepository(setupTestDB(t), quietLogger())

		repo.Store("some song", false, track)

		if _, ok := repo.Lookup("some song", true); ok {
			t.Error("loose entry must not satisfy a perfect-match lookup")
		}

		exact := models.TrackReference{VideoID: "vid2", Title: "Song"}
		repo.Store("some song", true, exact)

		got, ok := repo.Lookup("some song", true)
		if !ok || got.VideoID != "vid2" {
			t.Errorf("expected vid2 under perfect-match key, got %+v (hit=%t)", got, ok)
		}
	})

	t.Run("re-store is silent", func(t *testing.T) {
		repo := NewResolutionRepository(setupTestDB(t), quietLogger())

		repo.Store("some song", false, track)
		repo.Store("some song", false, models.TrackReference{VideoID: "other"})

		got, _ := repo.Lookup("some song", false)
		if got.VideoID != "vid1" {
			t.Errorf("expected first entry to win, got %s", got.VideoID)
		}
	})

	t.Run("count and clear", func(t *testing.T) {
		repo := NewResolutionRepository(setupTestDB(t), quietLogger())

		repo.Store("one", false, track)
		repo.Store("two", false, track)

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 entries, got %d", count)
		}

		if err := repo.Clear(); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		count, _ = repo.Count()
		if count != 0 {
			t.Errorf("expected empty cache after clear, got %d", count)
		}
	})

	t.Run("closed database degrades to misses", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewResolutionRepository(db, quietLogger())
		db.Close()

		repo.Store("some song", false, track)
		if _, ok := repo.Lookup("some song", false); ok {
			t.Error("expected miss against closed database")
		}
	})
}

func sampleRecord() *models.RunRecord {
	return &models.RunRecord{
		PlaylistID:    "PLabc",
		PlaylistTitle: "Test Mix",
		InputFile:     "songs.txt",
		Duration:      90 * time.Second,
		Report: models.RunReport{
			Total:      4,
			Successful: []models.SongQuery{"one", "two"},
			Failed:     []models.SongQuery{"three"},
			Duplicates: []models.SongQuery{"one"},
		},
	}
}

func TestRunRepository(t *testing.T) {
	t.Run("Create assigns id and timestamp", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		record := sampleRecord()

		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
		if record.ID == "" {
			t.Error("run ID should be set after creation")
		}
		if record.CreatedAt.IsZero() {
			t.Error("created time should be set after creation")
		}
	})

	t.Run("Get reassembles the report", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		record := sampleRecord()
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		got, err := repo.Get(record.ID)
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if got.PlaylistID != "PLabc" || got.PlaylistTitle != "Test Mix" {
			t.Errorf("unexpected playlist fields: %+v", got)
		}
		if got.Duration != 90*time.Second {
			t.Errorf("expected duration 90s, got %s", got.Duration)
		}
		if !got.Report.Complete() {
			t.Errorf("reloaded report incomplete: total %d, bucketed %d",
				got.Report.Total, got.Report.Bucketed())
		}
		if len(got.Report.Successful) != 2 || got.Report.Successful[0] != "one" {
			t.Errorf("unexpected successful bucket: %v", got.Report.Successful)
		}
		if len(got.Report.Failed) != 1 || len(got.Report.Duplicates) != 1 {
			t.Errorf("unexpected buckets: %+v", got.Report)
		}
	})

	t.Run("Get unknown id fails", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))

		if _, err := repo.Get("nope"); err == nil {
			t.Error("expected error for unknown run")
		}
	})

	t.Run("List returns newest first", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))

		older := sampleRecord()
		older.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := sampleRecord()
		newer.PlaylistTitle = "Newer Mix"
		newer.CreatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

		for _, record := range []*models.RunRecord{older, newer} {
			if err := repo.Create(record); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		records, err := repo.List(0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(records))
		}
		if records[0].PlaylistTitle != "Newer Mix" {
			t.Errorf("expected newest run first, got %s", records[0].PlaylistTitle)
		}

		limited, err := repo.List(1)
		if err != nil {
			t.Fatalf("failed to list limited runs: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("expected 1 run with limit, got %d", len(limited))
		}
	})
}
