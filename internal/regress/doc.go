// Package regress implements the dividend-growth predictive regression:
// n-year implied dividend yields from futures prices, the pooled panel
// pairing each yield with realized log dividend growth four quarters ahead,
// and the OLS fit with index-specific intercepts, a shared slope, and both
// classical and Newey-West standard errors.
package regress
