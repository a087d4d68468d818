package subtitle

import (
	"fmt"
	"testing"

	"github.com/jellysan-cli/jellysan/media"
	"github.com/jellysan-cli/jellysan/player"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSurface struct {
	added    []player.TextTrack
	selected []int
	cleared  int
	hidden   []bool
}

func (f *fakeSurface) Load(string, string, map[string]string) error { return nil }

func (f *fakeSurface) SetPaused(bool) error { return nil }

func (f *fakeSurface) Seek(float64) error { return nil }

func (f *fakeSurface) Position() (float64, error) { return 0, nil }

func (f *fakeSurface) Duration() (float64, error) { return 0, nil }

func (f *fakeSurface) SetVolume(int) error { return nil }

func (f *fakeSurface) SetMuted(bool) error { return nil }

func (f *fakeSurface) SelectAudio(int) error { return nil }

func (f *fakeSurface) SetChapters([]player.Chapter) error { return nil }

func (f *fakeSurface) Events(func(player.Event)) (func(), error) { return func() {}, nil }

func (f *fakeSurface) IsRunning() bool { return true }

func (f *fakeSurface) Close() error { return nil }

func (f *fakeSurface) Wait() <-chan struct{} { return nil }

func (f *fakeSurface) AddTextTrack(track player.TextTrack) error {
	f.added = append(f.added, track)
	return nil
}

func (f *fakeSurface) SelectTextTrack(streamIndex int) error {
	f.selected = append(f.selected, streamIndex)
	return nil
}

func (f *fakeSurface) ClearTextTracks() error {
	f.cleared++
	return nil
}

func (f *fakeSurface) SetTextTracksHidden(hidden bool) error {
	f.hidden = append(f.hidden, hidden)
	return nil
}

func TestPipelineDispatch(t *testing.T) {
	Convey("Given format tags", t, func() {
		Convey("Vector formats map to the vector compositor", func() {
			for _, format := range []string{"ass", "ssa", "ASS"} {
				p, err := pipelineFor(format)
				So(err, ShouldBeNil)
				So(p, ShouldHaveSameTypeAs, &vectorCompositor{})
			}
		})

		Convey("Text formats map to the native track", func() {
			for _, format := range []string{"subrip", "srt", "vtt", "webvtt"} {
				p, err := pipelineFor(format)
				So(err, ShouldBeNil)
				So(p, ShouldHaveSameTypeAs, &nativeTrack{})
			}
		})

		Convey("Bitmap formats map to the image compositor", func() {
			for _, format := range []string{"pgssub", "pgs", "dvdsub"} {
				p, err := pipelineFor(format)
				So(err, ShouldBeNil)
				So(p, ShouldHaveSameTypeAs, &imageCompositor{})
			}
		})

		Convey("Unknown formats are rejected", func() {
			_, err := pipelineFor("microdvd")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSelector(t *testing.T) {
	Convey("Given a selector and a surface", t, func() {
		surface := &fakeSurface{}
		selector := NewSelector()

		embedded := func(format string, index int) *media.SubtitleDescriptor {
			return &media.SubtitleDescriptor{Format: format, StreamIndex: index, Enabled: true}
		}

		Convey("Attaching an embedded text track selects it on the surface", func() {
			err := selector.Attach(surface, embedded("srt", 3))

			So(err, ShouldBeNil)
			So(selector.Active(), ShouldBeTrue)
			So(surface.selected, ShouldResemble, []int{3})
		})

		Convey("Attaching an external text track hands the URL to the surface", func() {
			err := selector.Attach(surface, &media.SubtitleDescriptor{
				Format:  "vtt",
				URL:     "http://server/subs/42.vtt",
				Enabled: true,
			})

			So(err, ShouldBeNil)
			So(surface.added, ShouldHaveLength, 1)
			So(surface.added[0].URL, ShouldEqual, "http://server/subs/42.vtt")
		})

		Convey("A disabled descriptor leaves no live pipeline", func() {
			So(selector.Attach(surface, &media.SubtitleDescriptor{Format: "srt"}), ShouldBeNil)
			So(selector.Active(), ShouldBeFalse)
		})

		Convey("Switching disposes the predecessor first", func() {
			So(selector.Attach(surface, embedded("srt", 1)), ShouldBeNil)
			So(selector.Switch(embedded("ass", 2)), ShouldBeNil)

			So(selector.Active(), ShouldBeTrue)
			// Disposing the embedded native track hides it rather than removing.
			So(surface.hidden, ShouldContain, true)
			So(surface.selected, ShouldResemble, []int{1, 2})
		})

		Convey("Repeated switches never leave two pipelines attached", func() {
			external := func(n int) *media.SubtitleDescriptor {
				return &media.SubtitleDescriptor{
					Format:  "vtt",
					URL:     fmt.Sprintf("http://server/subs/%d.vtt", n),
					Enabled: true,
				}
			}

			So(selector.Attach(surface, external(0)), ShouldBeNil)
			for n := 1; n <= 4; n++ {
				So(selector.Switch(external(n)), ShouldBeNil)
				So(selector.Active(), ShouldBeTrue)
			}

			// Every switch removed its predecessor's track first.
			So(surface.added, ShouldHaveLength, 5)
			So(surface.cleared, ShouldEqual, 4)
		})

		Convey("Switch without a prior Attach is an error", func() {
			err := selector.Switch(embedded("srt", 0))
			So(err, ShouldNotBeNil)
		})

		Convey("Hiding sticks across switches", func() {
			So(selector.Attach(surface, embedded("srt", 0)), ShouldBeNil)
			So(selector.SetHidden(true), ShouldBeNil)

			surface.hidden = nil
			So(selector.Switch(embedded("srt", 1)), ShouldBeNil)

			So(surface.hidden[len(surface.hidden)-1], ShouldBeTrue)
		})

		Convey("Dispose is idempotent", func() {
			So(selector.Attach(surface, embedded("srt", 0)), ShouldBeNil)

			selector.Dispose()
			selector.Dispose()

			So(selector.Active(), ShouldBeFalse)
		})
	})
}
