package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jellysan-cli/jellysan/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV implements the Surface interface using mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // Protects socket writes

	subMu  sync.Mutex
	subIDs []int // surface ids of externally attached text tracks
}

// NewMPV creates a new MPV surface instance (does not start playback).
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// Load starts playback of the given URL with the specified title and headers.
func (m *MPV) Load(rawURL string, title string, headers map[string]string) error {
	// Sanitize the URL to prevent flag injection
	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	safeTitle := sanitizeTitle(title)

	var headerString string
	if len(headers) > 0 {
		var hBuilder strings.Builder
		for k, v := range headers {
			if hBuilder.Len() > 0 {
				hBuilder.WriteString(",")
			}
			val := strings.ReplaceAll(v, ",", "%2C")
			hBuilder.WriteString(fmt.Sprintf("%s: %s", k, val))
		}
		headerString = hBuilder.String()
	}

	// Generate a random socket path using os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/)
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("jellysan-%x.sock", randomBytes))
	}

	// If mpv is already running, swap the file into the existing instance.
	if m.IsRunning() {
		_, err := m.sendCommand([]interface{}{"loadfile", safeURL, "replace"})
		if err == nil {
			_ = m.Set("force-media-title", safeTitle)
			return nil
		}
		log.Warnf("loadfile into running mpv failed, restarting: %v", err)
	}

	// Pass ONLY the socket, title, and URL.
	// Do NOT pass --vo, --profile, --hwdec: respect user's mpv.conf.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle), // Some mpv builds only respect --title
		"--force-window=yes",
		"--idle=yes",
	}

	if headerString != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", headerString))
	}

	args = append(args, safeURL)

	m.cmd = exec.Command("mpv", args...)

	// Detach from parent process group to prevent cascading shell panics.
	m.cmd.SysProcAttr = sysProcAttr()

	// Disable standard pipes to prevent resource leaks.
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	// Wait for the IPC socket to become available
	if err := m.waitForSocket(); err != nil {
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
				// Already exited
			default:
				log.Warnf("killing mpv: socket never became ready")
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Position returns the current playback position in seconds.
func (m *MPV) Position() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// Duration returns the total duration of the current media in seconds.
func (m *MPV) Duration() (float64, error) {
	return m.getFloatProperty("duration")
}

// SetPaused suspends or resumes playback.
func (m *MPV) SetPaused(paused bool) error {
	return m.Set("pause", paused)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

// SetVolume applies a volume level on mpv's 0-100 scale.
func (m *MPV) SetVolume(level int) error {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	return m.Set("volume", level)
}

// SetMuted toggles the audio mute flag.
func (m *MPV) SetMuted(muted bool) error {
	return m.Set("mute", muted)
}

// SelectAudio activates the audio track with the given surface track id.
func (m *MPV) SelectAudio(trackID int) error {
	return m.Set("aid", trackID)
}

// AddTextTrack appends an external native text track and makes it showing.
// Tracks previously attached through this surface are removed first so that
// at most one external text track renders at a time.
func (m *MPV) AddTextTrack(track TextTrack) error {
	if err := m.ClearTextTracks(); err != nil {
		return err
	}

	args := []interface{}{"sub-add", track.URL, "select"}
	if track.Title != "" {
		args = append(args, track.Title)
		if track.Language != "" {
			args = append(args, track.Language)
		}
	}
	if _, err := m.sendCommand(args); err != nil {
		return err
	}

	// Record the realized track id for later removal.
	if data, err := m.sendCommand([]interface{}{"get_property", "sid"}); err == nil {
		if id, ok := data.(float64); ok {
			m.subMu.Lock()
			m.subIDs = append(m.subIDs, int(id))
			m.subMu.Unlock()
		}
	}

	return m.Set("sub-visibility", true)
}

// SelectTextTrack activates the embedded text track with the given source index.
// mpv numbers sub tracks from 1 in demux order, matching the container order
// the server reports.
func (m *MPV) SelectTextTrack(streamIndex int) error {
	if err := m.Set("sid", streamIndex+1); err != nil {
		return err
	}
	return m.Set("sub-visibility", true)
}

// ClearTextTracks removes all externally attached text tracks.
func (m *MPV) ClearTextTracks() error {
	m.subMu.Lock()
	ids := m.subIDs
	m.subIDs = nil
	m.subMu.Unlock()

	for _, id := range ids {
		if _, err := m.sendCommand([]interface{}{"sub-remove", id}); err != nil {
			log.Warnf("sub-remove %d: %v", id, err)
		}
	}
	return nil
}

// SetTextTracksHidden hides or shows the active text track without removing it.
func (m *MPV) SetTextTracksHidden(hidden bool) error {
	return m.Set("sub-visibility", !hidden)
}

// SetChapters replaces the timeline chapter markers.
// This provides visual feedback in the mpv UI (timeline).
func (m *MPV) SetChapters(chapters []Chapter) error {
	list := make([]map[string]interface{}, 0, len(chapters))
	for _, ch := range chapters {
		list = append(list, map[string]interface{}{
			"title": ch.Title,
			"time":  ch.Start,
		})
	}
	_, err := m.sendCommand([]interface{}{"set_property", "chapter-list", list})
	return err
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	// Fast check: process already exited?
	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	// Wait for process to exit (with timeout)
	select {
	case <-m.exited:
		// Clean exit
	case <-time.After(3 * time.Second):
		// Force kill if graceful quit didn't work
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Set applies a property value over IPC.
func (m *MPV) Set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Reject control characters
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the title for mpv.
func sanitizeTitle(title string) string {
	t := strings.ReplaceAll(title, "\n", " ")
	t = strings.ReplaceAll(t, "\r", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	t = strings.ReplaceAll(t, "\x00", "")
	return strings.TrimSpace(t)
}
