package voice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time          { return c.at }
func (c *fakeClock) Advance(d time.Duration) { c.at = c.at.Add(d) }

func TestDebouncer_Allow(t *testing.T) {
	req := require.New(t)
	clock := &fakeClock{at: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	d := NewDebouncer(2 * time.Second)
	d.now = clock.Now

	req.True(d.Allow("Alice"))
	req.True(d.Allow("Bob"), "names are independent")

	clock.Advance(1999 * time.Millisecond)
	req.False(d.Allow("Alice"))

	clock.Advance(time.Millisecond)
	req.True(d.Allow("Alice"))

	// A suppressed call does not extend the window
	clock.Advance(time.Second)
	req.False(d.Allow("Alice"))
	clock.Advance(time.Second)
	req.True(d.Allow("Alice"))
}
