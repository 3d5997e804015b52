// Package gcctl controls the garbage collector while a region is being timed.
//
// The collector is process-wide state. Timers take a Collector instead of
// touching the runtime directly so tests can record toggles without changing
// the real GC setting.
package gcctl

import (
	"runtime"
	"runtime/debug"
	"sync"
)

// Collector is the query/disable/enable capability the timers need.
type Collector interface {
	Enabled() bool
	Disable()
	Enable()
	// Collect runs a full collection, whatever the enabled state.
	Collect()
}

const defaultPercent = 100

type runtimeCollector struct {
	mu      sync.Mutex
	percent int
}

var rt = &runtimeCollector{percent: defaultPercent}

// Runtime returns the Collector backed by runtime/debug.SetGCPercent.
func Runtime() Collector {
	return rt
}

func (c *runtimeCollector) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// SetGCPercent has no getter; read by setting and putting it back
	p := debug.SetGCPercent(-1)
	debug.SetGCPercent(p)
	return p >= 0
}

func (c *runtimeCollector) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p := debug.SetGCPercent(-1); p >= 0 {
		c.percent = p
	}
}

func (c *runtimeCollector) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	debug.SetGCPercent(c.percent)
}

func (c *runtimeCollector) Collect() {
	runtime.GC()
}

// Recorder is a Collector that only records calls.
type Recorder struct {
	mu      sync.Mutex
	enabled bool
	calls   []string
}

// NewRecorder returns a Recorder whose collector starts in the given state.
func NewRecorder(enabled bool) *Recorder {
	return &Recorder{enabled: enabled}
}

func (r *Recorder) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "enabled")
	return r.enabled
}

func (r *Recorder) Disable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "disable")
	r.enabled = false
}

func (r *Recorder) Enable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "enable")
	r.enabled = true
}

func (r *Recorder) Collect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "collect")
}

// IsEnabled reports the current state without recording a call.
func (r *Recorder) IsEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Calls returns the recorded call names in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}
