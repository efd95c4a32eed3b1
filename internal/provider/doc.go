// Package provider implements data acquisition for the pipeline: a
// rate-limited HTTP client for the market-data provider API, a fetcher that
// layers the on-disk pass-through cache over it, and an Excel fallback for
// the hand-maintained workbooks used when no provider is reachable.
//
// Dividend-futures coverage starts in 2015; requests reaching earlier are
// clamped and the missing history is treated as absent, never as zero.
package provider
