// Package taskqueue runs background image generation for carousel slides.
//
// Tasks are drained strictly in enqueue order, one at a time, so the image
// service is never hit concurrently. Each task makes at most one generation
// attempt; a failed task is recorded and the drain moves on to the next one.
// Transitions are reported to an optional Reporter and persisted in a
// SQLite-backed Ledger.
package taskqueue
