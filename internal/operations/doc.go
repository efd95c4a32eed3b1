// Package operations orchestrates a pipeline run: an ordered sequence of
// stages (fetch, transform, regress, stats, render) executed over a shared
// state, with per-stage status tracking, structured logging, and
// OpenTelemetry spans. The first stage failure aborts the run.
package operations
