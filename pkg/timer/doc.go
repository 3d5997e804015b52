// Package timer measures wall-clock time across a caller-delimited region.
//
// The region is bracketed with Enter and Exit, usually as
//
//	defer timer.New(timer.WithLabel("load")).Enter().Exit()
//
// or run through Do, which also guarantees Exit on error and panic. On exit
// the elapsed time is formatted with the shared unit policy and reported once,
// either to a configured Sink or as a line on stdout:
//
//	Executed 'load' in: 2.5 msec
//
// By default the garbage collector is switched off for the duration of the
// region and restored afterwards if it was on. It is meant for regions that
// take milliseconds or more; use package autotimer for micro benchmarks.
package timer
