// Package autotimer picks an iteration count for a benchmark target on its
// own and reports the best of several trials.
//
// Calibration runs the target 10, 100, 1000, ... times until one batch takes
// at least Threshold (0.2 s by default) or the exponent cap (10^9) is hit.
// That count is then used for Repeat trials and the minimum trial is
// reported per loop:
//
//	1000000 loops, best of 3: 0.253 usec per loop
//
// AutoTimer wraps a Runner, the run-N-times primitive, rather than extending
// it. A failing target does not yield a number: Auto returns an error that
// matches ErrTargetFailed and a diagnostic is logged.
package autotimer
