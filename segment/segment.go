// Package segment tracks the media segment containing the playback position
// and drives manual and automatic skipping.
package segment

import (
	"strings"
	"sync"

	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/log"
	"github.com/jellysan-cli/jellysan/media"
	"github.com/jellysan-cli/jellysan/player"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Controller watches the position stream for segment entry and exit. One
// controller serves one session; Reset prepares it for the next item.
type Controller struct {
	mu       sync.Mutex
	surface  player.Surface
	segments []media.Segment
	active   int
	skipped  map[int]bool
	autoSkip map[string]bool
}

const noActive = -1

// NewController returns a controller bound to the given surface with the
// auto-skip set read from configuration. Matching is case-insensitive: the
// configuration ships lowercase names while the server capitalizes types.
func NewController(surface player.Surface) *Controller {
	auto := make(map[string]bool)
	for _, name := range viper.GetStringSlice(key.PlaybackAutoSkipSegments) {
		auto[strings.ToLower(name)] = true
	}

	return &Controller{
		surface:  surface,
		active:   noActive,
		skipped:  make(map[int]bool),
		autoSkip: auto,
	}
}

// SetSegments installs the segments for the item about to play and mirrors
// them onto the surface timeline as chapters.
func (c *Controller) SetSegments(segments []media.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.segments = segments
	c.active = noActive
	c.skipped = make(map[int]bool)

	if len(segments) == 0 {
		return
	}

	chapters := lo.Map(segments, func(s media.Segment, _ int) player.Chapter {
		return player.Chapter{
			Title: string(s.Type),
			Start: s.StartSeconds(),
		}
	})
	if err := c.surface.SetChapters(chapters); err != nil {
		log.Warnf("chapter feedback: %v", err)
	}
}

// Reset drops the installed segments. Called before a queue advance so a
// stale intro interval never matches positions of the next item.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.segments = nil
	c.active = noActive
	c.skipped = make(map[int]bool)
}

// Update derives the segment containing the given position and reports
// whether the active segment changed. Segments whose type is configured for
// auto-skip are skipped on entry, once per item.
func (c *Controller) Update(positionSeconds float64) (changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ticks := media.SecondsToTicks(positionSeconds)
	_, idx, found := lo.FindIndexOf(c.segments, func(s media.Segment) bool {
		return s.Contains(ticks)
	})
	if !found {
		idx = noActive
	}

	if idx == c.active {
		return false
	}
	c.active = idx

	if idx != noActive && c.autoSkip[strings.ToLower(string(c.segments[idx].Type))] && !c.skipped[idx] {
		c.skipped[idx] = true
		c.skipLocked(idx)
	}

	return true
}

// Active returns the segment containing the last observed position.
func (c *Controller) Active() mo.Option[media.Segment] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == noActive {
		return mo.None[media.Segment]()
	}
	return mo.Some(c.segments[c.active])
}

// Skip seeks past the active segment. A no-op when no segment is active.
func (c *Controller) Skip() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == noActive {
		return
	}
	c.skipped[c.active] = true
	c.skipLocked(c.active)
}

func (c *Controller) skipLocked(idx int) {
	seg := c.segments[idx]
	log.Infof("skipping %s segment to %.2fs", seg.Type, seg.EndSeconds())

	if err := c.surface.Seek(seg.EndSeconds()); err != nil {
		log.Errorf("segment skip seek: %v", err)
	}
	c.active = noActive
}
