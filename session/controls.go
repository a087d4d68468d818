package session

import (
	"sync"
	"time"

	"github.com/jellysan-cli/jellysan/key"
	"github.com/spf13/viper"
)

// controls runs the on-screen controls idle timer: any activity shows the
// controls and restarts the countdown; at most one hide timer is pending at
// a time.
type controls struct {
	onToggle func(visible bool)

	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newControls(onToggle func(visible bool)) *controls {
	delay := time.Duration(viper.GetInt(key.PlaybackControlsHideDelay)) * time.Second
	if delay <= 0 {
		delay = 5 * time.Second
	}

	return &controls{
		onToggle: onToggle,
		delay:    delay,
	}
}

// activity shows the controls and restarts the hide countdown.
func (c *controls) activity() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onToggle != nil {
		c.onToggle(true)
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		toggle := c.onToggle
		c.mu.Unlock()

		if toggle != nil {
			toggle(false)
		}
	})
}

func (c *controls) setToggle(toggle func(visible bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onToggle = toggle
}

// stop cancels any pending hide timer.
func (c *controls) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
