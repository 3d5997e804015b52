package gcctl

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeDisableEnable(t *testing.T) {
	orig := debug.SetGCPercent(150)
	defer debug.SetGCPercent(orig)

	c := Runtime()
	assert.True(t, c.Enabled())

	c.Disable()
	assert.False(t, c.Enabled())

	c.Enable()
	assert.True(t, c.Enabled())

	// previous percent is restored, not the default
	assert.Equal(t, 150, debug.SetGCPercent(150))
}

func TestRuntimeDisableTwiceKeepsPercent(t *testing.T) {
	orig := debug.SetGCPercent(80)
	defer debug.SetGCPercent(orig)

	c := Runtime()
	c.Disable()
	c.Disable()
	c.Enable()

	assert.Equal(t, 80, debug.SetGCPercent(80))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(true)

	assert.True(t, r.Enabled())
	r.Disable()
	assert.False(t, r.IsEnabled())
	r.Enable()
	assert.True(t, r.IsEnabled())
	r.Collect()

	assert.Equal(t, []string{"enabled", "disable", "enable", "collect"}, r.Calls())
}

func TestRuntimeCollectRunsWhileDisabled(t *testing.T) {
	c := Runtime()
	c.Disable()
	defer c.Enable()

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	c.Collect()
	runtime.ReadMemStats(&after)

	assert.Greater(t, after.NumGC, before.NumGC)
}
