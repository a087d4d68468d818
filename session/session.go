// Package session owns the playback state machine. One session spans one
// sitting at the playback surface: it applies resolutions, tracks the
// position stream, drives reporting, subtitles and segment skipping, and
// tears everything down exactly once on exit.
package session

import (
	"sync"

	"github.com/jellysan-cli/jellysan/history"
	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/log"
	"github.com/jellysan-cli/jellysan/media"
	"github.com/jellysan-cli/jellysan/mediakeys"
	"github.com/jellysan-cli/jellysan/player"
	"github.com/jellysan-cli/jellysan/queue"
	"github.com/jellysan-cli/jellysan/report"
	"github.com/jellysan-cli/jellysan/resolver"
	"github.com/jellysan-cli/jellysan/segment"
	"github.com/jellysan-cli/jellysan/subtitle"
	"github.com/jellysan-cli/jellysan/util"
	"github.com/spf13/viper"
)

// State is the session's lifecycle phase.
type State string

const (
	Idle      State = "idle"
	Resolving State = "resolving"
	Loading   State = "loading"
	Playing   State = "playing"
	Paused    State = "paused"
	Ended     State = "ended"
	Errored   State = "errored"
)

// Server is the remote surface a session talks to. *jellyfin.Client
// satisfies it.
type Server interface {
	resolver.Catalog
	report.Playstate

	MarkPlayed(itemID string) error
	ImageURL(itemID string) string
}

// fullscreenReleaser is implemented by surfaces whose window state survives
// the played media and must be reset on exit.
type fullscreenReleaser interface {
	Set(property string, value interface{}) error
}

// Session is the playback state machine. All methods are safe for
// concurrent use; surface events and user commands arrive on different
// goroutines.
type Session struct {
	server  Server
	surface player.Surface

	reporter  *report.Reporter
	queue     *queue.Queue
	subtitles *subtitle.Selector
	segments  *segment.Controller
	keys      mediakeys.Session
	controls  *controls

	mu           sync.Mutex
	state        State
	generation   uint64
	item         *media.Item
	source       *media.Source
	itemSegments []media.Segment
	position     float64
	duration     float64
	volume       float64
	muted        bool
	ready        bool
	finished     bool
	lastErr      error
	stopEvents   func()
}

// New assembles a session around a server client and a playback surface.
func New(server Server, surface player.Surface) *Session {
	s := &Session{
		server:    server,
		surface:   surface,
		reporter:  report.New(server),
		queue:     queue.New(),
		subtitles: subtitle.NewSelector(),
		segments:  segment.NewController(surface),
		keys:      mediakeys.New(),
		state:     Idle,
		volume:    1.0,
	}
	s.controls = newControls(nil)
	return s
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that moved the session to Errored, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Queue exposes the play queue for inspection and reordering.
func (s *Session) Queue() *queue.Queue {
	return s.queue
}

// OnControlsVisibility installs the callback toggling the on-screen
// controls. Activity shows them; the idle timer hides them.
func (s *Session) OnControlsVisibility(show func(visible bool)) {
	s.controls.setToggle(show)
}

// Activity notes user input for the controls idle timer.
func (s *Session) Activity() {
	s.controls.activity()
}

// Play resolves the intent and starts playback of the resolved member.
// A resolution finishing after a newer Play has been issued is discarded.
func (s *Session) Play(intent resolver.Intent) error {
	s.mu.Lock()
	s.state = Resolving
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	resolution, err := resolver.Resolve(s.server, intent)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		log.Debugf("discarding stale resolution for %q", intent.ItemID)
		return nil
	}

	if err != nil {
		s.state = Errored
		s.lastErr = err
		return err
	}

	s.queue.Set(resolution.Items, resolution.Index)
	return s.loadLocked(resolution.Current(), resolution.Source, resolution.Segments)
}

// loadLocked points the surface at a negotiated source. The ready handshake
// continues in handleEvent.
func (s *Session) loadLocked(item *media.Item, source *media.Source, segments []media.Segment) error {
	s.item = item
	s.source = source
	s.itemSegments = segments
	s.state = Loading
	s.ready = false
	s.finished = false
	s.position = 0
	s.duration = media.TicksToSeconds(item.RuntimeTicks)
	s.lastErr = nil

	s.segments.Reset()
	s.segments.SetSegments(segments)

	url := s.server.ImageURL(item.ID)
	if source != nil {
		url = source.URL
	}

	if s.stopEvents == nil {
		stop, err := s.surface.Events(s.handleEvent)
		if err != nil {
			s.state = Errored
			s.lastErr = err
			return err
		}
		s.stopEvents = stop
	}

	if err := s.surface.Load(url, item.DisplayTitle(), nil); err != nil {
		s.state = Errored
		s.lastErr = err
		return err
	}
	return nil
}

func (s *Session) handleEvent(e player.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.Type {
	case player.EventReady:
		s.onReadyLocked()
	case player.EventPosition:
		s.onPositionLocked(e.Position)
	case player.EventPause:
		s.onPauseLocked(e.Flag)
	case player.EventSeeking:
		// A cleared seeking flag is the seek commit.
		if !e.Flag && s.ready {
			s.reporter.ProgressNow(s.snapshotLocked())
		}
	case player.EventEnded:
		s.onEndedLocked()
	case player.EventError:
		s.state = Errored
		s.lastErr = e.Err
		log.Errorf("surface error: %v", e.Err)
	case player.EventClosed:
		s.exitLocked()
	}
}

// onReadyLocked runs the once-per-item start actions: the resume seek, the
// subtitle attach, the start report and the media-key registration. Only
// after these does periodic progress reporting begin.
func (s *Session) onReadyLocked() {
	if s.ready || s.item == nil {
		return
	}
	s.ready = true

	if resume := s.item.ResumePositionTicks(); resume > 0 {
		seconds := media.TicksToSeconds(resume)
		if err := s.surface.Seek(seconds); err != nil {
			log.Warnf("resume seek: %v", err)
		} else {
			s.position = seconds
		}
	}

	if s.source != nil {
		if s.source.AudioStreamIndex != media.NoStream {
			if err := s.surface.SelectAudio(s.source.AudioStreamIndex); err != nil {
				log.Warnf("audio selection: %v", err)
			}
		}
		if err := s.subtitles.Attach(s.surface, s.source.Subtitle); err != nil {
			log.Errorf("subtitle pipeline: %v", err)
		}
	}

	if d, err := s.surface.Duration(); err == nil && d > 0 {
		s.duration = d
	}

	s.reporter.Start(s.snapshotLocked())
	if err := s.keys.Register(s.nowPlayingLocked(), mediaKeyHandler{s}); err != nil {
		log.Warnf("media session: %v", err)
	}

	s.state = Playing
	s.controls.activity()
}

func (s *Session) onPositionLocked(position float64) {
	if !s.ready {
		return
	}
	s.position = position
	s.segments.Update(position)
	s.reporter.Progress(s.snapshotLocked())
}

func (s *Session) onPauseLocked(paused bool) {
	if !s.ready {
		return
	}

	if paused {
		s.state = Paused
	} else {
		s.state = Playing
	}
	s.keys.Update(s.nowPlayingLocked())
	s.reporter.ProgressNow(s.snapshotLocked())
}

// onEndedLocked finishes the current item and either advances the queue or
// exits the whole session. The ready check drops end events that straggle
// in for media no longer current, so one EOF never moves the queue twice.
func (s *Session) onEndedLocked() {
	if s.item == nil || !s.ready {
		return
	}

	s.state = Ended
	s.finishItemLocked(true)

	if next, moved := s.queue.Advance(queue.Next); moved {
		s.advanceLocked(next)
		return
	}
	s.exitLocked()
}

// advanceLocked negotiates and loads another queue member.
func (s *Session) advanceLocked(item *media.Item) {
	s.generation++

	source, segments, err := resolver.Negotiate(s.server, item, resolver.Intent{ItemID: item.ID})
	if err != nil {
		s.state = Errored
		s.lastErr = err
		log.Errorf("advance to %q: %v", item.Name, err)
		return
	}

	s.subtitles.Dispose()
	if err = s.loadLocked(item, source, segments); err != nil {
		log.Errorf("advance to %q: %v", item.Name, err)
	}
}

// finishItemLocked records completion of the item that just stopped playing:
// the watched threshold, the server played flag and the local history entry.
func (s *Session) finishItemLocked(ended bool) {
	if s.item == nil || !s.ready || s.finished {
		return
	}
	s.finished = true

	percentage := 0.0
	if s.duration > 0 {
		percentage = util.Clamp(s.position/s.duration, 0, 1)
	}
	if ended {
		percentage = 1
	}

	threshold := viper.GetFloat64(key.PlaybackCompletionPercentage) / 100
	if threshold > 0 && percentage >= threshold {
		if err := s.server.MarkPlayed(s.item.ID); err != nil {
			log.Warnf("mark played: %v", err)
		}
	}

	if viper.GetBool(key.HistorySaveOnWatch) {
		if err := history.Save(s.item, percentage); err != nil {
			log.Warnf("history: %v", err)
		}
	}
}

// TogglePause flips the pause flag on the surface. The state transition
// follows the surface's pause event, not the request.
func (s *Session) TogglePause() {
	s.mu.Lock()
	paused := s.state == Paused
	s.mu.Unlock()

	s.controls.activity()
	if err := s.surface.SetPaused(!paused); err != nil {
		log.Warnf("pause toggle: %v", err)
	}
}

// Seek commits an absolute position in seconds, clamped to the item bounds.
func (s *Session) Seek(seconds float64) {
	s.mu.Lock()
	if s.duration > 0 {
		seconds = util.Clamp(seconds, 0, s.duration)
	}
	s.position = seconds
	s.mu.Unlock()

	s.controls.activity()
	if err := s.surface.Seek(seconds); err != nil {
		log.Warnf("seek: %v", err)
	}
}

// SeekBy commits a relative seek.
func (s *Session) SeekBy(deltaSeconds float64) {
	s.mu.Lock()
	target := s.position + deltaSeconds
	s.mu.Unlock()

	s.Seek(target)
}

// SetVolume applies a volume on the engine's 0.0-1.0 scale.
func (s *Session) SetVolume(volume float64) {
	volume = util.Clamp(volume, 0, 1)

	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()

	s.controls.activity()
	if err := s.surface.SetVolume(int(volume * 100)); err != nil {
		log.Warnf("volume: %v", err)
	}
}

// SetMuted toggles the mute flag.
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()

	if err := s.surface.SetMuted(muted); err != nil {
		log.Warnf("mute: %v", err)
	}
}

// SkipSegment seeks past the segment containing the current position.
func (s *Session) SkipSegment() {
	s.controls.activity()
	s.segments.Skip()
}

// Next finishes the current item and advances the queue. A no-op at the
// queue tail.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, moved := s.queue.Advance(queue.Next)
	if !moved {
		return
	}
	s.finishItemLocked(false)
	s.advanceLocked(next)
}

// Previous moves back one queue member. A no-op at the queue head.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, moved := s.queue.Advance(queue.Previous)
	if !moved {
		return
	}
	s.finishItemLocked(false)
	s.advanceLocked(prev)
}

// Jump starts playback of an explicit queue member.
func (s *Session) Jump(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.queue.Jump(index)
	if !ok {
		return
	}
	s.finishItemLocked(false)
	s.advanceLocked(item)
}

// Retry re-enters Loading with the already negotiated source and segments
// after an Errored state. Playback restarts from the last reported position.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Errored || s.item == nil {
		return nil
	}
	return s.loadLocked(s.item, s.source, s.itemSegments)
}

// Exit tears the session down: the final stop report, the subtitle
// disposal, the queue and segment reset and the surface shutdown. Calling
// it again is a no-op.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exitLocked()
}

func (s *Session) exitLocked() {
	if s.state == Idle {
		return
	}

	if s.ready && s.source != nil {
		s.finishItemLocked(s.state == Ended)
		s.reporter.Stop(s.snapshotLocked())
	}

	s.subtitles.Dispose()
	s.segments.Reset()
	s.queue.Clear()
	s.keys.Release()
	s.controls.stop()

	if s.stopEvents != nil {
		s.stopEvents()
		s.stopEvents = nil
	}

	if fs, ok := s.surface.(fullscreenReleaser); ok {
		_ = fs.Set("fullscreen", false)
	}
	if err := s.surface.Close(); err != nil {
		log.Warnf("surface close: %v", err)
	}

	s.item = nil
	s.source = nil
	s.itemSegments = nil
	s.ready = false
	s.position = 0
	s.duration = 0
	s.state = Idle
}

// Wait blocks until the surface process exits.
func (s *Session) Wait() {
	ch := s.surface.Wait()
	if ch == nil {
		return
	}
	<-ch
}

func (s *Session) snapshotLocked() report.Snapshot {
	return report.Snapshot{
		Item:          s.item,
		Source:        s.source,
		PositionTicks: media.SecondsToTicks(s.position),
		Paused:        s.state == Paused,
		Muted:         s.muted,
		Volume:        s.volume,
	}
}

func (s *Session) nowPlayingLocked() mediakeys.NowPlaying {
	info := mediakeys.NowPlaying{
		Title:  s.item.Name,
		Paused: s.state == Paused,
	}
	if s.item.Kind == media.KindEpisode {
		info.Subtitle = s.item.SeriesName
	}
	return info
}

// mediaKeyHandler forwards hardware media keys to the session.
type mediaKeyHandler struct {
	s *Session
}

func (h mediaKeyHandler) PlayPause() { h.s.TogglePause() }
func (h mediaKeyHandler) Next()      { h.s.Next() }
func (h mediaKeyHandler) Previous()  { h.s.Previous() }
func (h mediaKeyHandler) Stop()      { h.s.Exit() }
