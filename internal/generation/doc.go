// Package generation drives an end-to-end carousel generation run and owns
// the session state it mutates.
//
// A run moves through placeholder build, text generation, image-queue
// dispatch, and a sequential drain. The placeholder build is synchronous so
// the user sees slide structure before any network call is made; text and
// image results are patched in as they arrive. The orchestrator is the
// single writer for the project, the loading-state tracker, the navigation
// projection, and the progress record, and it stamps every run with a
// monotonic run id so completions from a superseded run are discarded
// instead of applied.
package generation
