// Package mediakeys is the boundary to the operating system's media session:
// hardware play/pause/next keys and the OS "now playing" display. The engine
// registers on playback start and releases on exit; platforms without an
// integration get a no-op session so callers never branch.
package mediakeys

import "github.com/jellysan-cli/jellysan/log"

// Handler receives hardware media key presses.
type Handler interface {
	PlayPause()
	Next()
	Previous()
	Stop()
}

// NowPlaying is the metadata mirrored to the OS media display.
type NowPlaying struct {
	Title    string
	Subtitle string
	Paused   bool
}

// Session is one registration with the OS media service.
type Session interface {
	// Register announces the playing media and starts delivering key
	// presses to the handler.
	Register(info NowPlaying, handler Handler) error

	// Update refreshes the displayed metadata and pause state.
	Update(info NowPlaying)

	// Release withdraws the registration. Safe to call repeatedly.
	Release()
}

// New returns the media session integration for the current platform.
func New() Session {
	return noop{}
}

// noop satisfies Session on platforms without a media service integration.
type noop struct{}

func (noop) Register(info NowPlaying, _ Handler) error {
	log.Debugf("media session: %s", info.Title)
	return nil
}

func (noop) Update(NowPlaying) {}

func (noop) Release() {}
