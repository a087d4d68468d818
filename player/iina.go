package player

import (
	"fmt"
	"os/exec"
	"runtime"
)

// IINA implements the Surface interface for macOS native IINA playback.
// It acts as a stub for IPC functionality since IINA does not expose
// the same IPC socket interface as mpv.
type IINA struct {
	cmd    *exec.Cmd
	exited chan struct{}
}

func NewIINA() *IINA {
	return &IINA{
		exited: make(chan struct{}),
	}
}

func (m *IINA) Load(rawURL string, title string, headers map[string]string) error {
	if runtime.GOOS != "darwin" {
		return fmt.Errorf("IINA is only supported on macOS")
	}

	args := []string{"-a", "IINA"}

	// IINA accepts mpv-specific arguments via the '--args' flag separator.
	args = append(args, "--args", fmt.Sprintf("--mpv-force-media-title=%s", sanitizeTitle(title)))

	if len(headers) > 0 {
		var hBuilder string
		for k, v := range headers {
			if len(hBuilder) > 0 {
				hBuilder += ","
			}
			hBuilder += fmt.Sprintf("%s: %s", k, v)
		}
		args = append(args, fmt.Sprintf("--http-header-fields=%s", hBuilder))
	}

	args = append(args, rawURL)

	m.cmd = exec.Command("open", args...)

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("LaunchServices failed to invoke IINA: %w", err)
	}

	// Wait for process to detach/finish
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	return nil
}

func (m *IINA) Wait() <-chan struct{} {
	return m.exited
}

// Stub implementations for the rest of the interface
func (m *IINA) SetPaused(bool) error               { return nil }
func (m *IINA) Seek(float64) error                 { return nil }
func (m *IINA) Position() (float64, error)         { return 0, fmt.Errorf("not supported on IINA") }
func (m *IINA) Duration() (float64, error)         { return 0, fmt.Errorf("not supported on IINA") }
func (m *IINA) SetVolume(int) error                { return nil }
func (m *IINA) SetMuted(bool) error                { return nil }
func (m *IINA) SelectAudio(int) error              { return nil }
func (m *IINA) AddTextTrack(TextTrack) error       { return fmt.Errorf("not supported on IINA") }
func (m *IINA) SelectTextTrack(int) error          { return fmt.Errorf("not supported on IINA") }
func (m *IINA) ClearTextTracks() error             { return nil }
func (m *IINA) SetTextTracksHidden(bool) error     { return nil }
func (m *IINA) SetChapters([]Chapter) error        { return nil }
func (m *IINA) Events(func(Event)) (func(), error) { return func() {}, nil }

func (m *IINA) IsRunning() bool {
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

func (m *IINA) Close() error {
	if m.cmd != nil && m.cmd.Process != nil {
		_ = m.cmd.Process.Kill()
	}
	return nil
}
