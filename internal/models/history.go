package models

import "time"

// RunRecord is the persisted summary of one completed batch run. The Report
// buckets are stored alongside the counters so past runs can be re-exported.
type RunRecord struct {
	ID            string
	PlaylistID    string
	PlaylistTitle string
	InputFile     string
	Duration      time.Duration
	Report        RunReport
	CreatedAt     time.Time
}

// PlaylistURL returns the public address of the run's playlist.
func (r RunRecord) PlaylistURL() string {
	return PlaylistTarget{ID: r.PlaylistID}.URL()
}
