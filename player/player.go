// Package player defines a unified abstraction layer over playback surfaces.
// The architecture supports multiple backends, with the primary implementation targeting 'mpv' via its JSON-IPC interface.
package player

// EventType discriminates the surface events forwarded to the session.
type EventType string

const (
	// EventReady fires once the surface has realized the media and playback can begin.
	EventReady EventType = "ready"
	// EventPosition carries the current playback position in seconds.
	EventPosition EventType = "position"
	// EventPause carries the current pause flag.
	EventPause EventType = "pause"
	// EventSeeking carries the buffering/seeking flag.
	EventSeeking EventType = "seeking"
	// EventEnded fires when the media reached its end.
	EventEnded EventType = "ended"
	// EventError carries a fatal surface error.
	EventError EventType = "error"
	// EventClosed fires when the surface process exits.
	EventClosed EventType = "closed"
)

// Event is a single surface notification.
type Event struct {
	Type     EventType
	Position float64
	Flag     bool
	Err      error
}

// TextTrack describes an external native text track attached to the surface.
type TextTrack struct {
	URL      string
	Title    string
	Language string
}

// Chapter is a named timeline marker shown on the surface for segment feedback.
type Chapter struct {
	Title string
	Start float64
}

// Surface encapsulates the required capabilities of a playback surface. The
// orchestration engine treats it as a controllable external resource; all
// times are in seconds, conversion to server ticks happens at the session
// boundary.
type Surface interface {
	// Load starts playback of the given URL with the specified title and HTTP headers.
	Load(url string, title string, headers map[string]string) error

	// SetPaused suspends or resumes playback.
	SetPaused(paused bool) error

	// Seek transitions the playback position to an absolute timestamp in seconds.
	Seek(seconds float64) error

	// Position retrieves the current absolute playback position in seconds.
	Position() (float64, error)

	// Duration retrieves the total temporal length of the active media in seconds.
	Duration() (float64, error)

	// SetVolume applies a volume level on the surface's native 0-100 scale.
	SetVolume(level int) error

	// SetMuted toggles the audio mute flag.
	SetMuted(muted bool) error

	// SelectAudio activates the audio stream with the given source index.
	SelectAudio(streamIndex int) error

	// AddTextTrack appends an external native text track and makes it showing.
	AddTextTrack(track TextTrack) error

	// SelectTextTrack activates the embedded text track with the given source index.
	SelectTextTrack(streamIndex int) error

	// ClearTextTracks removes all externally attached text tracks.
	ClearTextTracks() error

	// SetTextTracksHidden hides or shows the active text track without removing it.
	SetTextTracksHidden(hidden bool) error

	// SetChapters replaces the timeline chapter markers.
	SetChapters(chapters []Chapter) error

	// Events subscribes to surface notifications. The returned stop function
	// detaches the listener; it is safe to call more than once.
	Events(callback func(Event)) (stop func(), err error)

	// IsRunning validates the liveness of the underlying playback process.
	IsRunning() bool

	// Close terminates the playback surface and releases all associated system resources.
	Close() error

	// Wait returns a channel that is closed when the surface process exits.
	Wait() <-chan struct{}
}
