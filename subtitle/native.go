package subtitle

import (
	"github.com/jellysan-cli/jellysan/media"
	"github.com/jellysan-cli/jellysan/player"
)

// nativeTrack rides the surface's built-in text track support for plain text
// formats. External tracks are handed to the surface by URL; embedded tracks
// are selected by source index and demuxed by the surface itself.
type nativeTrack struct {
	surface  player.Surface
	external bool
}

func newNativeTrack() *nativeTrack {
	return &nativeTrack{}
}

func (n *nativeTrack) load(surface player.Surface, descriptor *media.SubtitleDescriptor) error {
	n.surface = surface

	if descriptor.Embedded() {
		return surface.SelectTextTrack(descriptor.StreamIndex)
	}

	n.external = true
	return surface.AddTextTrack(player.TextTrack{
		URL: descriptor.URL,
	})
}

func (n *nativeTrack) setHidden(hidden bool) error {
	return n.surface.SetTextTracksHidden(hidden)
}

func (n *nativeTrack) dispose() {
	if n.surface == nil {
		return
	}
	if n.external {
		_ = n.surface.ClearTextTracks()
	} else {
		_ = n.surface.SetTextTracksHidden(true)
	}
	n.surface = nil
}
