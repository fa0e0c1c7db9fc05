// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI covers the lifetime of one batch run:
//  1. [RunView] : Progress bar plus a rolling log of per-query outcomes
//  2. [ResultView] : Final counts, playlist URL, and unmatched queries
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the batch engine, providing
// non-blocking status reporting while tracks are resolved and inserted.
//
// Quitting mid-run (q or ctrl+c) leaves the partially built playlist on the
// remote service; only the local report is lost.
package ui
