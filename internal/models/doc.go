// Package models defines the domain entities for the txt-to-youtube-music pipeline.
//
// The types fall into two categories:
//
// 1. Pipeline values threaded through resolution and insertion:
//   - [SongQuery] : One free-text line from the input file
//   - [TrackReference] : A resolved track, identified by its opaque video ID
//   - [PlaylistTarget] : The playlist created at run start
//   - [Outcome] : Classification of one insertion attempt
//
// 2. Run accounting:
//   - [Registry] : In-run set of inserted video IDs for duplicate suppression
//   - [RunReport] : Ordered buckets recording the fate of every input query
//
// The RunReport invariant (every query lands in exactly one bucket, and
// Total equals the sum of bucket lengths) is maintained by the tasks
// orchestrator and checked via [RunReport.Complete].
package models
