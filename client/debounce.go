package client

import (
	"sync"
	"time"
)

const DEFAULT_DEBOUNCE = 300 * time.Millisecond

// Debouncer calls fn with the last value once no new value arrived for
// delay. A burst of calls produces one call, and a stable value equal to
// the last one delivered is not delivered again.
type Debouncer struct {
	delay time.Duration
	fn    func(value string)

	mu        sync.Mutex
	timer     *time.Timer
	pending   string
	delivered string
	fired     bool
}

func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = value
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	value := d.pending
	if d.fired && value == d.delivered {
		d.mu.Unlock()
		return
	}
	d.fired = true
	d.delivered = value
	d.mu.Unlock()

	d.fn(value)
}

// Stop drops a pending value.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

func NewDebouncer(delay time.Duration, fn func(value string)) *Debouncer {
	if delay <= 0 {
		delay = DEFAULT_DEBOUNCE
	}
	return &Debouncer{
		delay: delay,
		fn:    fn,
	}
}
