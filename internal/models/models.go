// package models defines the data model for the playlist population pipeline
package models

// SongQuery is a user-supplied free-text song description, read once per run
// from the input file. Always non-empty and trimmed.
type SongQuery string

// Queries converts raw input lines into typed song queries.
func Queries(lines []string) []SongQuery {
	queries := make([]SongQuery, len(lines))
	for i, line := range lines {
		queries[i] = SongQuery(line)
	}
	return queries
}

// TrackReference is a resolved pointer to a track or video on YouTube Music.
// It is only ever built from a remote search result, never synthesized.
type TrackReference struct {
	VideoID string // Opaque external identifier; equality key for duplicate detection
	Title   string
	Artist  string // Primary artist, may be empty for videos
}

// Display renders the track for user-facing output.
func (t TrackReference) Display() string {
	if t.Artist != "" {
		return t.Title + " by " + t.Artist
	}
	return t.Title
}

// PlaylistTarget identifies the playlist created at run start. Immutable for
// the rest of the run.
type PlaylistTarget struct {
	ID    string
	Title string
}

// URL returns the public address of the playlist.
func (p PlaylistTarget) URL() string {
	return "https://music.youtube.com/playlist?list=" + p.ID
}

// Outcome classifies the result of one insertion attempt.
type Outcome int

const (
	Success Outcome = iota
	Duplicate
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Duplicate:
		return "duplicate"
	case Failure:
		return "failure"
	default:
		return ""
	}
}

// Registry tracks the video IDs confirmed inserted during the current run.
// It backs in-run duplicate suppression and is never persisted. Mutation is
// confined to the inserter under the orchestrator's single thread of control.
type Registry struct {
	seen map[string]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Contains reports whether videoID was already inserted this run.
func (r *Registry) Contains(videoID string) bool {
	_, ok := r.seen[videoID]
	return ok
}

// Add records videoID as successfully inserted.
func (r *Registry) Add(videoID string) {
	r.seen[videoID] = struct{}{}
}

// Len returns the number of unique tracks inserted this run.
func (r *Registry) Len() int {
	return len(r.seen)
}

// RunReport accumulates the fate of every input query. Each query lands in
// exactly one bucket, in input order, so Total always equals the sum of the
// bucket lengths.
type RunReport struct {
	Total      int
	Successful []SongQuery
	Failed     []SongQuery
	NotFound   []SongQuery
	Duplicates []SongQuery
}

// Bucketed returns the number of queries accounted for across all buckets.
func (r *RunReport) Bucketed() int {
	return len(r.Successful) + len(r.Failed) + len(r.NotFound) + len(r.Duplicates)
}

// Complete reports whether every processed query has been bucketed.
func (r *RunReport) Complete() bool {
	return r.Total == r.Bucketed()
}
