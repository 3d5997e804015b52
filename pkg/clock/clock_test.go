package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonicAdvances(t *testing.T) {
	c := Monotonic()
	start := c.Now()
	time.Sleep(10 * time.Millisecond)
	elapsed := c.Now() - start

	assert.GreaterOrEqual(t, elapsed, 0.009)
	assert.Less(t, elapsed, 1.0)
}

func TestFunc(t *testing.T) {
	readings := []float64{1.0, 1.5}
	i := 0
	c := Func(func() float64 {
		v := readings[i]
		i++
		return v
	})

	assert.Equal(t, 1.0, c.Now())
	assert.Equal(t, 1.5, c.Now())
}
