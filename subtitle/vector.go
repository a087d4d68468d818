package subtitle

import (
	"context"
	"fmt"
	"sync"

	"github.com/jellysan-cli/jellysan/filesystem"
	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/log"
	"github.com/jellysan-cli/jellysan/media"
	"github.com/jellysan-cli/jellysan/player"
	"github.com/spf13/viper"
)

// fontConfigurer is implemented by surfaces whose vector renderer can take a
// custom font directory.
type fontConfigurer interface {
	Set(property string, value interface{}) error
}

// vectorCompositor renders styled ass/ssa tracks. The track is fetched off
// the event path by a worker and handed to the surface's libass-backed
// renderer once it is on disk, so a slow subtitle server never stalls
// playback start.
type vectorCompositor struct {
	surface player.Surface

	cancel context.CancelFunc
	worker sync.WaitGroup

	mu       sync.Mutex
	fetched  string
	embedded bool
}

func newVectorCompositor() *vectorCompositor {
	return &vectorCompositor{}
}

func (v *vectorCompositor) load(surface player.Surface, descriptor *media.SubtitleDescriptor) error {
	v.surface = surface

	if dir := viper.GetString(key.SubtitlesFontDir); dir != "" {
		if fc, ok := surface.(fontConfigurer); ok {
			if err := fc.Set("sub-fonts-dir", dir); err != nil {
				log.Warnf("font directory rejected by renderer: %v", err)
			}
		}
	}

	if descriptor.Embedded() {
		v.embedded = true
		return surface.SelectTextTrack(descriptor.StreamIndex)
	}

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel

	v.worker.Add(1)
	go func() {
		defer v.worker.Done()

		name := fmt.Sprintf("track-%d.%s", descriptor.StreamIndex, descriptor.Format)
		path, err := fetchTrack(ctx, descriptor.URL, name)
		if err != nil {
			if ctx.Err() == nil {
				log.Errorf("vector subtitle fetch: %v", err)
			}
			return
		}

		v.mu.Lock()
		v.fetched = path
		v.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if err = surface.AddTextTrack(player.TextTrack{URL: path}); err != nil {
			log.Errorf("vector subtitle attach: %v", err)
		}
	}()

	return nil
}

func (v *vectorCompositor) setHidden(hidden bool) error {
	return v.surface.SetTextTracksHidden(hidden)
}

func (v *vectorCompositor) dispose() {
	if v.cancel != nil {
		v.cancel()
	}
	v.worker.Wait()

	if v.surface != nil {
		if v.embedded {
			_ = v.surface.SetTextTracksHidden(true)
		} else {
			_ = v.surface.ClearTextTracks()
		}
		v.surface = nil
	}

	v.mu.Lock()
	if v.fetched != "" {
		_ = filesystem.API().Remove(v.fetched)
		v.fetched = ""
	}
	v.mu.Unlock()
}
