// Package subtitle selects and drives the rendering pipeline for a resolved
// subtitle track. The selector dispatches on the track's format tag: vector
// formats are composited with a font-aware renderer, plain text formats ride
// the surface's native track support, and bitmap formats go through the image
// compositor. At most one pipeline is live at a time.
package subtitle

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jellysan-cli/jellysan/log"
	"github.com/jellysan-cli/jellysan/media"
	"github.com/jellysan-cli/jellysan/player"
)

// pipeline is one realized rendering path for a single subtitle track.
type pipeline interface {
	load(surface player.Surface, descriptor *media.SubtitleDescriptor) error
	setHidden(hidden bool) error
	dispose()
}

// Selector owns the live subtitle pipeline for a playback session.
type Selector struct {
	mu      sync.Mutex
	surface player.Surface
	current pipeline
	hidden  bool
}

// NewSelector returns a selector with no live pipeline.
func NewSelector() *Selector {
	return &Selector{}
}

// Attach binds the selector to a surface and loads the pipeline for the given
// descriptor. A previously live pipeline is disposed first. A nil descriptor
// or a disabled track disposes without loading a successor.
func (s *Selector) Attach(surface player.Surface, descriptor *media.SubtitleDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.surface = surface
	return s.attach(descriptor)
}

// Switch replaces the live track on the surface set by a previous Attach.
func (s *Selector) Switch(descriptor *media.SubtitleDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.surface == nil {
		return fmt.Errorf("subtitle switch without an attached surface")
	}
	return s.attach(descriptor)
}

func (s *Selector) attach(descriptor *media.SubtitleDescriptor) error {
	if s.current != nil {
		s.current.dispose()
		s.current = nil
	}

	if descriptor == nil || !descriptor.Enabled {
		return nil
	}

	p, err := pipelineFor(descriptor.Format)
	if err != nil {
		return err
	}

	if err = p.load(s.surface, descriptor); err != nil {
		p.dispose()
		return err
	}

	s.current = p
	if s.hidden {
		return s.current.setHidden(true)
	}
	return nil
}

// SetHidden hides or shows the live track without tearing the pipeline down.
// The flag sticks across switches.
func (s *Selector) SetHidden(hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hidden = hidden
	if s.current == nil {
		return nil
	}
	return s.current.setHidden(hidden)
}

// Active reports whether a pipeline is currently live.
func (s *Selector) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current != nil
}

// Dispose tears down the live pipeline. Safe to call repeatedly.
func (s *Selector) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	s.current.dispose()
	s.current = nil
	log.Debug("subtitle pipeline disposed")
}

// pipelineFor maps a server format tag onto a rendering path.
func pipelineFor(format string) (pipeline, error) {
	switch strings.ToLower(format) {
	case "ass", "ssa":
		return newVectorCompositor(), nil
	case "subrip", "srt", "vtt", "webvtt":
		return newNativeTrack(), nil
	case "pgssub", "pgs", "dvdsub":
		return newImageCompositor(), nil
	default:
		return nil, fmt.Errorf("unsupported subtitle format %q", format)
	}
}
