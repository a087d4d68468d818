package segment

import (
	"testing"

	"github.com/jellysan-cli/jellysan/config"
	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/media"
	"github.com/jellysan-cli/jellysan/player"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

type seekRecorder struct {
	seeks    []float64
	chapters [][]player.Chapter
}

func (f *seekRecorder) Load(string, string, map[string]string) error { return nil }

func (f *seekRecorder) SetPaused(bool) error { return nil }

func (f *seekRecorder) Position() (float64, error) { return 0, nil }

func (f *seekRecorder) Duration() (float64, error) { return 0, nil }

func (f *seekRecorder) SetVolume(int) error { return nil }

func (f *seekRecorder) SetMuted(bool) error { return nil }

func (f *seekRecorder) SelectAudio(int) error { return nil }

func (f *seekRecorder) AddTextTrack(player.TextTrack) error { return nil }

func (f *seekRecorder) SelectTextTrack(int) error { return nil }

func (f *seekRecorder) ClearTextTracks() error { return nil }

func (f *seekRecorder) SetTextTracksHidden(bool) error { return nil }

func (f *seekRecorder) Events(func(player.Event)) (func(), error) { return func() {}, nil }

func (f *seekRecorder) IsRunning() bool { return true }

func (f *seekRecorder) Close() error { return nil }

func (f *seekRecorder) Wait() <-chan struct{} { return nil }

func (f *seekRecorder) Seek(seconds float64) error {
	f.seeks = append(f.seeks, seconds)
	return nil
}

func (f *seekRecorder) SetChapters(chapters []player.Chapter) error {
	f.chapters = append(f.chapters, chapters)
	return nil
}

func seconds(s float64) int64 {
	return media.SecondsToTicks(s)
}

func TestController(t *testing.T) {
	Convey("Given a controller with an intro and an outro", t, func() {
		viper.Set(key.PlaybackAutoSkipSegments, []string{})
		surface := &seekRecorder{}
		controller := NewController(surface)

		controller.SetSegments([]media.Segment{
			{Type: media.SegmentIntro, StartTicks: seconds(10), EndTicks: seconds(90)},
			{Type: media.SegmentOutro, StartTicks: seconds(1200), EndTicks: seconds(1290)},
		})

		Convey("Segments surface as timeline chapters", func() {
			So(surface.chapters, ShouldHaveLength, 1)
			So(surface.chapters[0][0].Title, ShouldEqual, "Intro")
			So(surface.chapters[0][0].Start, ShouldEqual, 10)
		})

		Convey("Update derives the containing segment", func() {
			So(controller.Update(5), ShouldBeFalse)
			So(controller.Active().IsPresent(), ShouldBeFalse)

			So(controller.Update(10), ShouldBeTrue)
			So(controller.Active().MustGet().Type, ShouldEqual, media.SegmentIntro)

			Convey("Repeated positions inside the segment report no change", func() {
				So(controller.Update(45), ShouldBeFalse)
			})

			Convey("The end boundary is exclusive", func() {
				So(controller.Update(90), ShouldBeTrue)
				So(controller.Active().IsPresent(), ShouldBeFalse)
			})
		})

		Convey("Skip seeks to the active segment end", func() {
			controller.Update(30)
			controller.Skip()

			So(surface.seeks, ShouldResemble, []float64{90})
			So(controller.Active().IsPresent(), ShouldBeFalse)
		})

		Convey("Skip without an active segment is a no-op", func() {
			controller.Skip()
			So(surface.seeks, ShouldBeEmpty)
		})

		Convey("Reset drops stale segments", func() {
			controller.Update(30)
			controller.Reset()

			So(controller.Active().IsPresent(), ShouldBeFalse)
			So(controller.Update(30), ShouldBeFalse)
		})
	})

	Convey("Given the shipped auto-skip default", t, func() {
		viper.Set(key.PlaybackAutoSkipSegments, config.Default[key.PlaybackAutoSkipSegments].Value)
		surface := &seekRecorder{}
		controller := NewController(surface)

		controller.SetSegments([]media.Segment{
			{Type: media.SegmentIntro, StartTicks: seconds(10), EndTicks: seconds(90)},
		})

		Convey("The server's capitalized intro type still auto-skips", func() {
			controller.Update(15)
			So(surface.seeks, ShouldResemble, []float64{90})
		})
	})

	Convey("Given auto-skip configured for intros", t, func() {
		viper.Set(key.PlaybackAutoSkipSegments, []string{"Intro"})
		surface := &seekRecorder{}
		controller := NewController(surface)

		controller.SetSegments([]media.Segment{
			{Type: media.SegmentIntro, StartTicks: seconds(10), EndTicks: seconds(90)},
		})

		Convey("Entering the intro skips it without user input", func() {
			controller.Update(15)
			So(surface.seeks, ShouldResemble, []float64{90})

			Convey("Seeking back into it does not skip twice", func() {
				controller.Update(20)
				So(surface.seeks, ShouldHaveLength, 1)
			})
		})
	})
}
