// Package series defines the time-series data model shared by every
// pipeline stage: dated observations with strictly increasing dates,
// alignment across instruments, and the quarterly resampling used by the
// dividend-growth regression.
package series
