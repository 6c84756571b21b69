package present

import (
	"sync"
	"time"
)

// Countdown ticks once per second toward zero. The verification pages
// use it for the code-expiry display; Stop must be called on page
// teardown so callbacks cannot fire into a dismantled page.
type Countdown struct {
	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// StartCountdown runs a countdown from d to zero. onTick receives the
// remaining time after each one-second step; onExpire fires once when
// the countdown reaches zero. Either callback may be nil.
func StartCountdown(d time.Duration, onTick func(remaining time.Duration), onExpire func()) *Countdown {
	return startCountdown(d, time.Second, onTick, onExpire)
}

// startCountdown is the interval-parameterized core, split out so tests
// can run a fast clock.
func startCountdown(d, step time.Duration, onTick func(time.Duration), onExpire func()) *Countdown {
	c := &Countdown{done: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(step)
		defer ticker.Stop()

		remaining := d
		for remaining > 0 {
			select {
			case <-c.done:
				return
			case <-ticker.C:
			}

			remaining -= step
			if remaining < 0 {
				remaining = 0
			}

			// Re-check under the lock so a Stop racing the tick wins.
			c.mu.Lock()
			stopped := c.stopped
			c.mu.Unlock()
			if stopped {
				return
			}

			if onTick != nil {
				onTick(remaining)
			}
		}

		if onExpire != nil {
			onExpire()
		}
	}()

	return c
}

// Stop cancels the countdown. Callbacks do not fire after Stop returns
// from the caller's perspective of the next tick. Stop is idempotent.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	c.stopped = true
	close(c.done)
}
