package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/jellysan-cli/jellysan/jellyfin"
	"github.com/jellysan-cli/jellysan/media"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingServer struct {
	started  []jellyfin.PlaystateReport
	progress []jellyfin.PlaystateReport
	stopped  []jellyfin.PlaystateReport
	err      error

	// When set, progress deliveries wait here, simulating a hung server.
	block chan struct{}
}

func (s *recordingServer) ReportStart(r jellyfin.PlaystateReport) error {
	s.started = append(s.started, r)
	return s.err
}

func (s *recordingServer) ReportProgress(r jellyfin.PlaystateReport) error {
	if s.block != nil {
		<-s.block
	}
	s.progress = append(s.progress, r)
	return s.err
}

func (s *recordingServer) ReportStopped(r jellyfin.PlaystateReport) error {
	s.stopped = append(s.stopped, r)
	return s.err
}

func snapshot() Snapshot {
	return Snapshot{
		Item: &media.Item{ID: "item"},
		Source: &media.Source{
			ID:                  "source",
			PlaySessionID:       "psid",
			AudioStreamIndex:    1,
			SubtitleStreamIndex: media.NoStream,
		},
		PositionTicks: 42 * media.TicksPerSecond,
		Volume:        0.8,
	}
}

func TestReporter(t *testing.T) {
	Convey("Given a reporter with a 10s interval", t, func() {
		server := &recordingServer{}

		clock := time.Unix(1000, 0)
		reporter := New(server)
		reporter.interval = 10 * time.Second
		reporter.now = func() time.Time { return clock }

		Convey("Start announces the session and arms the gate", func() {
			reporter.Start(snapshot())
			reporter.Flush()

			So(server.started, ShouldHaveLength, 1)
			So(server.started[0].PlaySessionID, ShouldEqual, "psid")

			So(reporter.Progress(snapshot()), ShouldBeFalse)
		})

		Convey("Progress is gated by the interval under fast position ticks", func() {
			reporter.Start(snapshot())

			for i := 0; i < 9; i++ {
				clock = clock.Add(time.Second)
				So(reporter.Progress(snapshot()), ShouldBeFalse)
			}

			clock = clock.Add(time.Second)
			So(reporter.Progress(snapshot()), ShouldBeTrue)

			reporter.Flush()
			So(server.progress, ShouldHaveLength, 1)
		})

		Convey("ProgressNow bypasses the gate and re-arms it", func() {
			reporter.Start(snapshot())

			reporter.ProgressNow(snapshot())
			reporter.Flush()
			So(server.progress, ShouldHaveLength, 1)

			clock = clock.Add(9 * time.Second)
			So(reporter.Progress(snapshot()), ShouldBeFalse)
		})

		Convey("Report failures are swallowed", func() {
			server.err = fmt.Errorf("server unreachable")

			reporter.Start(snapshot())
			reporter.ProgressNow(snapshot())
			reporter.Stop(snapshot())

			So(server.stopped, ShouldHaveLength, 1)
		})

		Convey("A snapshot without a source is a silent no-op", func() {
			reporter.Start(Snapshot{Item: &media.Item{ID: "item"}})
			reporter.ProgressNow(Snapshot{Item: &media.Item{ID: "item"}})
			reporter.Stop(Snapshot{Item: &media.Item{ID: "item"}})

			So(server.started, ShouldBeEmpty)
			So(server.progress, ShouldBeEmpty)
			So(server.stopped, ShouldBeEmpty)
		})

		Convey("A hung server does not block the caller", func() {
			release := make(chan struct{})
			server.block = release

			reporter.Start(snapshot())

			// The worker blocks inside the first delivery; both calls
			// must return immediately regardless.
			reporter.ProgressNow(snapshot())
			reporter.ProgressNow(snapshot())

			close(release)
			reporter.Flush()
			So(server.progress, ShouldHaveLength, 2)
		})

		Convey("Stop drains the queue before returning", func() {
			reporter.Start(snapshot())
			reporter.ProgressNow(snapshot())
			reporter.Stop(snapshot())

			So(server.progress, ShouldHaveLength, 1)
			So(server.stopped, ShouldHaveLength, 1)
		})

		Convey("The payload carries the full playstate", func() {
			reporter.Start(snapshot())
			reporter.Flush()

			r := server.started[0]
			So(r.ItemID, ShouldEqual, "item")
			So(r.MediaSourceID, ShouldEqual, "source")
			So(r.PositionTicks, ShouldEqual, int64(42*media.TicksPerSecond))
			So(r.VolumeLevel, ShouldEqual, 80)
			So(r.PlayMethod, ShouldEqual, "DirectPlay")
		})
	})
}

func TestVolumeLevel(t *testing.T) {
	Convey("Volume converts to the server's integer scale", t, func() {
		So(volumeLevel(0), ShouldEqual, 0)
		So(volumeLevel(0.505), ShouldEqual, 51)
		So(volumeLevel(1), ShouldEqual, 100)
		So(volumeLevel(1.7), ShouldEqual, 100)
		So(volumeLevel(-0.1), ShouldEqual, 0)
	})
}
