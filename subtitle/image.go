package subtitle

import (
	"context"
	"fmt"
	"sync"

	"github.com/jellysan-cli/jellysan/filesystem"
	"github.com/jellysan-cli/jellysan/log"
	"github.com/jellysan-cli/jellysan/media"
	"github.com/jellysan-cli/jellysan/player"
)

// imageCompositor handles bitmap formats (pgs, dvdsub). Bitmap tracks cannot
// ride the native text path; the worker stages the track on disk and the
// surface composites the frames itself.
type imageCompositor struct {
	surface player.Surface

	cancel context.CancelFunc
	worker sync.WaitGroup

	mu       sync.Mutex
	fetched  string
	embedded bool
}

func newImageCompositor() *imageCompositor {
	return &imageCompositor{}
}

func (c *imageCompositor) load(surface player.Surface, descriptor *media.SubtitleDescriptor) error {
	c.surface = surface

	if descriptor.Embedded() {
		c.embedded = true
		return surface.SelectTextTrack(descriptor.StreamIndex)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.worker.Add(1)
	go func() {
		defer c.worker.Done()

		name := fmt.Sprintf("track-%d.%s", descriptor.StreamIndex, descriptor.Format)
		path, err := fetchTrack(ctx, descriptor.URL, name)
		if err != nil {
			if ctx.Err() == nil {
				log.Errorf("image subtitle fetch: %v", err)
			}
			return
		}

		c.mu.Lock()
		c.fetched = path
		c.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if err = surface.AddTextTrack(player.TextTrack{URL: path}); err != nil {
			log.Errorf("image subtitle attach: %v", err)
		}
	}()

	return nil
}

func (c *imageCompositor) setHidden(hidden bool) error {
	return c.surface.SetTextTracksHidden(hidden)
}

func (c *imageCompositor) dispose() {
	if c.cancel != nil {
		c.cancel()
	}
	c.worker.Wait()

	if c.surface != nil {
		if c.embedded {
			_ = c.surface.SetTextTracksHidden(true)
		} else {
			_ = c.surface.ClearTextTracks()
		}
		c.surface = nil
	}

	c.mu.Lock()
	if c.fetched != "" {
		_ = filesystem.API().Remove(c.fetched)
		c.fetched = ""
	}
	c.mu.Unlock()
}
