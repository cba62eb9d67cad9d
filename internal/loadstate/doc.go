// Package loadstate tracks per-canvas generation progress separately from
// slide content, so frequent percent ticks never force a canvas snapshot.
package loadstate
