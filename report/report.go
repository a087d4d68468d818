// Package report pushes playback state to the server. Reports are best
// effort: a failed report is logged and dropped, never retried and never
// shown to the user, so a flaky server cannot disturb playback.
package report

import (
	"math"
	"sync"
	"time"

	"github.com/jellysan-cli/jellysan/jellyfin"
	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/log"
	"github.com/jellysan-cli/jellysan/media"
	"github.com/spf13/viper"
)

// Playstate is the server surface the reporter writes to. *jellyfin.Client
// satisfies it.
type Playstate interface {
	ReportStart(jellyfin.PlaystateReport) error
	ReportProgress(jellyfin.PlaystateReport) error
	ReportStopped(jellyfin.PlaystateReport) error
}

// Snapshot is the session state captured at report time. Volume rides the
// engine's 0.0-1.0 scale; conversion to the server's 0-100 happens here and
// nowhere else.
type Snapshot struct {
	Item          *media.Item
	Source        *media.Source
	PositionTicks int64
	Paused        bool
	Muted         bool
	Volume        float64
}

type reportKind int

const (
	reportStart reportKind = iota
	reportProgress
	reportStopped
)

type job struct {
	kind reportKind
	snap Snapshot
}

// Reporter gates periodic progress reports behind a monotonic interval so a
// surface ticking positions at 1 Hz or faster still produces at most one
// report per interval. Pause and seek-commit reports bypass the gate.
//
// Delivery runs on a single background worker: callers only enqueue, so a
// slow or hung server never blocks the playback event path. When the queue
// backs up, reports are dropped instead of awaited.
type Reporter struct {
	server Playstate

	jobs chan job
	wg   sync.WaitGroup

	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// New returns a reporter with the interval read from configuration and its
// delivery worker running.
func New(server Playstate) *Reporter {
	interval := time.Duration(viper.GetInt(key.PlaybackReportInterval)) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}

	r := &Reporter{
		server:   server,
		interval: interval,
		now:      time.Now,
		jobs:     make(chan job, 16),
	}
	go r.work()
	return r
}

// Start announces the play session and arms the progress gate.
func (r *Reporter) Start(snap Snapshot) {
	if r.server == nil || snap.Source == nil {
		return
	}

	r.mu.Lock()
	r.last = r.now()
	r.mu.Unlock()

	r.enqueue(reportStart, snap)
}

// Progress queues a periodic progress report if the interval has elapsed
// since the last one. Reports whether a report was queued.
func (r *Reporter) Progress(snap Snapshot) bool {
	if r.server == nil || snap.Source == nil {
		return false
	}

	r.mu.Lock()
	if r.now().Sub(r.last) < r.interval {
		r.mu.Unlock()
		return false
	}
	r.last = r.now()
	r.mu.Unlock()

	r.enqueue(reportProgress, snap)
	return true
}

// ProgressNow bypasses the interval gate. Used for pause toggles and seek
// commits, which the server should see immediately.
func (r *Reporter) ProgressNow(snap Snapshot) {
	r.mu.Lock()
	r.last = r.now()
	r.mu.Unlock()

	r.enqueue(reportProgress, snap)
}

// Stop closes the play session with the final position. Unlike the other
// reports it drains the queue before returning, so the stop report is the
// last one the server sees and is delivered before the process exits.
func (r *Reporter) Stop(snap Snapshot) {
	r.enqueue(reportStopped, snap)
	r.Flush()
}

// Flush blocks until every queued report has been delivered.
func (r *Reporter) Flush() {
	r.wg.Wait()
}

func (r *Reporter) enqueue(kind reportKind, snap Snapshot) {
	if r.server == nil || snap.Source == nil || r.jobs == nil {
		return
	}

	r.wg.Add(1)
	select {
	case r.jobs <- job{kind: kind, snap: snap}:
	default:
		// A backlog this deep means the server is not keeping up.
		r.wg.Done()
		log.Debugf("report queue full, dropping")
	}
}

func (r *Reporter) work() {
	for j := range r.jobs {
		r.deliver(j)
		r.wg.Done()
	}
}

func (r *Reporter) deliver(j job) {
	var err error
	switch j.kind {
	case reportStart:
		err = r.server.ReportStart(payload(j.snap))
	case reportProgress:
		err = r.server.ReportProgress(payload(j.snap))
	case reportStopped:
		err = r.server.ReportStopped(payload(j.snap))
	}
	if err != nil {
		log.Warnf("playstate report dropped: %v", err)
	}
}

func payload(snap Snapshot) jellyfin.PlaystateReport {
	method := "DirectPlay"
	if snap.Source.Transcoding {
		method = "Transcode"
	}

	return jellyfin.PlaystateReport{
		ItemID:              snap.Item.ID,
		MediaSourceID:       snap.Source.ID,
		PlaySessionID:       snap.Source.PlaySessionID,
		AudioStreamIndex:    snap.Source.AudioStreamIndex,
		SubtitleStreamIndex: snap.Source.SubtitleStreamIndex,
		PositionTicks:       snap.PositionTicks,
		IsPaused:            snap.Paused,
		IsMuted:             snap.Muted,
		VolumeLevel:         volumeLevel(snap.Volume),
		CanSeek:             true,
		PlayMethod:          method,
	}
}

// volumeLevel converts the engine's 0.0-1.0 volume to the server's 0-100
// integer scale, clamped.
func volumeLevel(volume float64) int {
	level := int(math.Round(volume * 100))
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}
