package voice

import (
	"sync"
	"time"
)

// Debouncer drops a name called again within the window.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	last   map[string]time.Time
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window, now: time.Now, last: make(map[string]time.Time)}
}

// Allow reports whether name may trigger now and records the call when it does.
func (d *Debouncer) Allow(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if last, ok := d.last[name]; ok && now.Sub(last) < d.window {
		return false
	}
	d.last[name] = now
	return true
}
