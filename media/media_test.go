package media

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTicks(t *testing.T) {
	Convey("Tick conversions", t, func() {
		Convey("Round-trip whole seconds", func() {
			So(TicksToSeconds(TicksPerSecond), ShouldEqual, 1.0)
			So(SecondsToTicks(1.0), ShouldEqual, TicksPerSecond)
			So(SecondsToTicks(90.0), ShouldEqual, 90*TicksPerSecond)
		})

		Convey("Fractional seconds round to nearest tick", func() {
			So(SecondsToTicks(0.5), ShouldEqual, TicksPerSecond/2)
			So(SecondsToTicks(1.0/3.0), ShouldEqual, int64(3333333))
		})

		Convey("Duration conversions", func() {
			So(TicksToDuration(TicksPerSecond), ShouldEqual, time.Second)
			So(DurationToTicks(90*time.Second), ShouldEqual, 90*TicksPerSecond)
		})
	})
}

func TestKind(t *testing.T) {
	Convey("Kind", t, func() {
		Convey("Collections", func() {
			for _, k := range []Kind{KindSeries, KindSeason, KindPlaylist, KindAlbum, KindArtist, KindBoxSet} {
				So(k.IsCollection(), ShouldBeTrue)
			}
		})

		Convey("Non-collections", func() {
			for _, k := range []Kind{KindMovie, KindEpisode, KindAudio, KindPhoto, KindDefault} {
				So(k.IsCollection(), ShouldBeFalse)
			}
		})
	})
}

func TestItem(t *testing.T) {
	Convey("Item", t, func() {
		item := &Item{
			ID:         "ep1",
			Name:       "Pilot",
			Kind:       KindEpisode,
			SeriesName: "Some Show",
		}

		Convey("DisplayTitle includes series context for episodes", func() {
			So(item.DisplayTitle(), ShouldEqual, "Some Show - Pilot")

			movie := &Item{Name: "A Movie", Kind: KindMovie}
			So(movie.DisplayTitle(), ShouldEqual, "A Movie")
		})

		Convey("PreferredSourceID", func() {
			So(item.PreferredSourceID().IsAbsent(), ShouldBeTrue)

			item.SourceIDs = []string{"src-a", "src-b"}
			So(item.PreferredSourceID().MustGet(), ShouldEqual, "src-a")
		})

		Convey("ResumePositionTicks is zero for played items", func() {
			item.UserData = UserData{PositionTicks: 500, Played: true}
			So(item.ResumePositionTicks(), ShouldEqual, 0)

			item.UserData.Played = false
			So(item.ResumePositionTicks(), ShouldEqual, 500)
		})
	})
}

func TestSource(t *testing.T) {
	Convey("Source", t, func() {
		src := &Source{
			ID: "src",
			Streams: []Stream{
				{Index: 0, Type: StreamVideo, Codec: "h264"},
				{Index: 1, Type: StreamAudio, Language: "en"},
				{Index: 2, Type: StreamAudio, Language: "ja", IsDefault: true},
				{Index: 3, Type: StreamSubtitle, Codec: "subrip"},
			},
		}

		Convey("AudioStreams preserves order", func() {
			audio := src.AudioStreams()
			So(len(audio), ShouldEqual, 2)
			So(audio[0].Index, ShouldEqual, 1)
			So(audio[1].Index, ShouldEqual, 2)
		})

		Convey("SubtitleStreams", func() {
			subs := src.SubtitleStreams()
			So(len(subs), ShouldEqual, 1)
			So(subs[0].Codec, ShouldEqual, "subrip")
		})

		Convey("StreamByIndex", func() {
			st, ok := src.StreamByIndex(2)
			So(ok, ShouldBeTrue)
			So(st.Language, ShouldEqual, "ja")

			_, ok = src.StreamByIndex(99)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSegment(t *testing.T) {
	Convey("Segment", t, func() {
		seg := Segment{Type: SegmentIntro, StartTicks: 10 * TicksPerSecond, EndTicks: 90 * TicksPerSecond}

		Convey("Contains is start-inclusive, end-exclusive", func() {
			So(seg.Contains(10*TicksPerSecond), ShouldBeTrue)
			So(seg.Contains(50*TicksPerSecond), ShouldBeTrue)
			So(seg.Contains(90*TicksPerSecond), ShouldBeFalse)
			So(seg.Contains(9*TicksPerSecond), ShouldBeFalse)
		})

		Convey("Second conversions", func() {
			So(seg.StartSeconds(), ShouldEqual, 10.0)
			So(seg.EndSeconds(), ShouldEqual, 90.0)
		})
	})
}
