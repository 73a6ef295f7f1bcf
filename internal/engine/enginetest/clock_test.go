package enginetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockFiresInOrder(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(start)
	var order []string
	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "late") })
	c.AfterFunc(100*time.Millisecond, func() {
		order = append(order, "early")
		c.AfterFunc(100*time.Millisecond, func() { order = append(order, "chained") })
	})
	stopped := c.AfterFunc(150*time.Millisecond, func() { order = append(order, "stopped") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	c.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"early", "chained"}, order)
	assert.Equal(t, start.Add(250*time.Millisecond), c.Now())
	assert.Equal(t, 1, c.Pending())

	c.Advance(time.Second)
	assert.Equal(t, []string{"early", "chained", "late"}, order)
	assert.Equal(t, 0, c.Pending())
}
