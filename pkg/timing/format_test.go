package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatExamples(t *testing.T) {
	v, u := Format(0.0005, 1)
	assert.InDelta(t, 500.0, v, 1e-9)
	assert.Equal(t, USec, u)

	v, u = Format(1.5, 1)
	assert.Equal(t, 1.5, v)
	assert.Equal(t, Sec, u)

	v, u = Format(0.0025, 1)
	assert.InDelta(t, 2.5, v, 1e-12)
	assert.Equal(t, MSec, u)
}

func TestFormatBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		loops   int
		unit    Unit
	}{
		{"zero", 0, 1, USec},
		{"just under a millisecond", 0.000999, 1, USec},
		{"exactly a millisecond", 0.001, 1, MSec},
		{"just under a second", 0.999, 1, MSec},
		{"exactly a second", 1.0, 1, Sec},
		{"per-loop microseconds", 0.5, 1000, USec},
		{"per-loop milliseconds", 2.0, 1000, MSec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, u := Format(tt.seconds, tt.loops)
			assert.Equal(t, tt.unit, u)
		})
	}
}

// The seconds branch reports the raw duration, not the per-loop duration.
func TestFormatSecondsBranchIsUnscaled(t *testing.T) {
	v, u := Format(30.0, 10)
	assert.Equal(t, Sec, u)
	assert.Equal(t, 30.0, v, "sec branch must return the unscaled duration")

	v, u = Format(2.0, 1)
	assert.Equal(t, Sec, u)
	assert.Equal(t, 2.0, v)
}

func TestFormatPerLoopScaling(t *testing.T) {
	v, u := Format(0.25, 100000)
	assert.Equal(t, USec, u)
	assert.InDelta(t, 2.5, v, 1e-9)

	v, u = Format(0.5, 100)
	assert.Equal(t, MSec, u)
	assert.InDelta(t, 5.0, v, 1e-9)
}

func TestFormatInvalidLoops(t *testing.T) {
	require.ErrorIs(t, ValidateLoops(0), ErrInvalidLoopCount)
	require.ErrorIs(t, ValidateLoops(-3), ErrInvalidLoopCount)
	require.NoError(t, ValidateLoops(1))

	assert.Panics(t, func() { Format(1.0, 0) })
}

func TestSprint(t *testing.T) {
	assert.Equal(t, "500", Sprint(500.0, 3))
	assert.Equal(t, "2.5", Sprint(2.5, 3))
	assert.Equal(t, "1.23e+03", Sprint(1234.5, 3))
	assert.Equal(t, "0.123", Sprint(0.12345, 3))
}
