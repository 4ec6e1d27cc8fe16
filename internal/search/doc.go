// Package search isolates the regions of a graph's input space whose
// evaluation produces an infinite or NaN output.
//
// The search evaluates the graph with interval arithmetic. A box holding one
// interval per graph input is flagged when any output interval reaches an
// infinity or NaN. Flagged boxes are bisected along their widest dimension
// until every side is at most the requested resolution; boxes that are not
// flagged are dropped. Final boxes that touch are coalesced.
//
// Unbounded inputs are split exponentially: at zero first, then at the
// finite endpoint scaled by 1024, so even [-Inf, Inf] converges.
package search
