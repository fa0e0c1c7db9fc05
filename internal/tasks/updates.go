package tasks

import (
	"fmt"

	"github.com/Jokaes/txt-to-youtube-music/internal/models"
)

// ProgressUpdate represents a progress event during a batch run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase            // Operation phase
	Step    int              // Current step number within phase
	Total   int              // Total steps in this phase
	Message string           // Human-readable message for display
	Query   models.SongQuery // Query being processed, when applicable
	Result  Result           // Per-query outcome, ResultNone outside InsertTrack/ResolveQuery
	Track   *models.TrackReference
}

// Operation phase enumeration
type Phase int

const (
	CreatePlaylist Phase = iota
	ResolveQuery
	InsertTrack
	BatchDone
)

func (p Phase) String() string {
	switch p {
	case CreatePlaylist:
		return "create_playlist"
	case ResolveQuery:
		return "resolve_query"
	case InsertTrack:
		return "insert_track"
	case BatchDone:
		return "batch_done"
	default:
		return ""
	}
}

// Result classifies what happened to one query, for display purposes.
type Result int

const (
	ResultNone Result = iota
	ResultAdded
	ResultDuplicate
	ResultNotFound
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultAdded:
		return "added"
	case ResultDuplicate:
		return "duplicate"
	case ResultNotFound:
		return "not_found"
	case ResultFailed:
		return "failed"
	default:
		return ""
	}
}

func createPlaylistUpdate(target models.PlaylistTarget) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", target.Title, target.ID),
	}
}

func resolvingUpdate(step, total int, query models.SongQuery) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveQuery,
		Step:    step,
		Total:   total,
		Query:   query,
		Message: fmt.Sprintf("[%d/%d] Searching: %s", step, total, query),
	}
}

func addedUpdate(step, total int, query models.SongQuery, track *models.TrackReference) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InsertTrack,
		Step:    step,
		Total:   total,
		Query:   query,
		Result:  ResultAdded,
		Track:   track,
		Message: fmt.Sprintf("Added: %s", track.Display()),
	}
}

func duplicateUpdate(step, total int, query models.SongQuery, track *models.TrackReference) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InsertTrack,
		Step:    step,
		Total:   total,
		Query:   query,
		Result:  ResultDuplicate,
		Track:   track,
		Message: fmt.Sprintf("Duplicate: %s", query),
	}
}

func notFoundUpdate(step, total int, query models.SongQuery) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InsertTrack,
		Step:    step,
		Total:   total,
		Query:   query,
		Result:  ResultNotFound,
		Message: fmt.Sprintf("Not found: %s", query),
	}
}

func failedUpdate(step, total int, query models.SongQuery) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InsertTrack,
		Step:    step,
		Total:   total,
		Query:   query,
		Result:  ResultFailed,
		Message: fmt.Sprintf("Failed: %s", query),
	}
}

func batchDoneUpdate(total int, report *models.RunReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchDone,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Processed %d songs: %d added", total, len(report.Successful)),
	}
}
