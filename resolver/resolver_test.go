package resolver

import (
	"fmt"
	"testing"

	"github.com/jellysan-cli/jellysan/key"
	"github.com/jellysan-cli/jellysan/media"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

type fakeCatalog struct {
	items    map[string]*media.Item
	episodes []*media.Item
	children []*media.Item
	source   *media.Source
	segments []media.Segment

	segmentsErr error
	negotiated  int
}

func (f *fakeCatalog) Item(id string) (*media.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s not found", id)
	}
	return item, nil
}

func (f *fakeCatalog) Episodes(string, string) ([]*media.Item, error) {
	return f.episodes, nil
}

func (f *fakeCatalog) Children(string) ([]*media.Item, error) {
	return f.children, nil
}

func (f *fakeCatalog) PlaybackInfo(itemID, sourceID string, audioIndex, subtitleIndex *int) (*media.Source, error) {
	f.negotiated++
	if f.source == nil {
		return nil, fmt.Errorf("negotiation failed")
	}
	src := *f.source
	src.ItemID = itemID
	if audioIndex != nil {
		src.AudioStreamIndex = *audioIndex
	}
	if subtitleIndex != nil {
		src.SubtitleStreamIndex = *subtitleIndex
	}
	return &src, nil
}

func (f *fakeCatalog) Segments(string) ([]media.Segment, error) {
	if f.segmentsErr != nil {
		return nil, f.segmentsErr
	}
	return f.segments, nil
}

func (f *fakeCatalog) SubtitleDeliveryURL(itemID, sourceID string, streamIndex int, format string) string {
	return fmt.Sprintf("http://server/%s/%s/%d.%s", itemID, sourceID, streamIndex, format)
}

func movie(id string) *media.Item {
	return &media.Item{ID: id, Name: id, Kind: media.KindMovie, SourceIDs: []string{"src-" + id}}
}

func episode(id string, played bool) *media.Item {
	return &media.Item{
		ID: id, Name: id, Kind: media.KindEpisode,
		SeriesID: "series", SeasonID: "season",
		SourceIDs: []string{"src-" + id},
		UserData:  media.UserData{Played: played},
	}
}

func plainSource() *media.Source {
	return &media.Source{
		ID:                      "source",
		URL:                     "http://server/stream.mkv",
		AudioStreamIndex:        media.NoStream,
		SubtitleStreamIndex:     media.NoStream,
		DefaultAudioStreamIndex: 1,
		Streams: []media.Stream{
			{Index: 0, Type: media.StreamVideo, Codec: "h264"},
			{Index: 1, Type: media.StreamAudio, Codec: "aac", Language: "jpn"},
			{Index: 2, Type: media.StreamAudio, Codec: "aac", Language: "eng"},
		},
	}
}

func TestResolve(t *testing.T) {
	Convey("Given a catalog", t, func() {
		viper.Set(key.PlaybackPreferAudioLanguage, "")

		catalog := &fakeCatalog{
			items:  map[string]*media.Item{"m1": movie("m1")},
			source: plainSource(),
		}

		Convey("Input validation aborts before any round-trip", func() {
			_, err := Resolve(nil, Intent{ItemID: "m1"})
			So(err, ShouldNotBeNil)

			_, err = Resolve(catalog, Intent{})
			So(err, ShouldNotBeNil)

			So(catalog.negotiated, ShouldEqual, 0)
		})

		Convey("A movie resolves to a singleton queue with a negotiated source", func() {
			res, err := Resolve(catalog, Intent{ItemID: "m1"})

			So(err, ShouldBeNil)
			So(res.Items, ShouldHaveLength, 1)
			So(res.Index, ShouldEqual, 0)
			So(res.Source, ShouldNotBeNil)
			So(res.Source.ItemID, ShouldEqual, "m1")
		})

		Convey("A photo skips negotiation entirely", func() {
			catalog.items["p1"] = &media.Item{ID: "p1", Kind: media.KindPhoto}

			res, err := Resolve(catalog, Intent{ItemID: "p1"})

			So(err, ShouldBeNil)
			So(res.Source, ShouldBeNil)
			So(catalog.negotiated, ShouldEqual, 0)
		})

		Convey("An item without a media source id aborts", func() {
			catalog.items["bare"] = &media.Item{ID: "bare", Kind: media.KindMovie}

			_, err := Resolve(catalog, Intent{ItemID: "bare"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a season of episodes", t, func() {
		viper.Set(key.PlaybackPreferAudioLanguage, "")

		season := &media.Item{ID: "season", Kind: media.KindSeason, SeriesID: "series"}
		catalog := &fakeCatalog{
			items:    map[string]*media.Item{"season": season},
			episodes: []*media.Item{episode("e1", true), episode("e2", false), episode("e3", false)},
			source:   plainSource(),
		}

		Convey("Resolution starts at the first unplayed episode", func() {
			res, err := Resolve(catalog, Intent{ItemID: "season"})

			So(err, ShouldBeNil)
			So(res.Items, ShouldHaveLength, 3)
			So(res.Current().ID, ShouldEqual, "e2")
		})

		Convey("A requested member overrides the default index", func() {
			res, err := Resolve(catalog, Intent{ItemID: "season", MemberID: "e3"})

			So(err, ShouldBeNil)
			So(res.Current().ID, ShouldEqual, "e3")
		})

		Convey("A member outside the resolved list aborts", func() {
			_, err := Resolve(catalog, Intent{ItemID: "season", MemberID: "e9"})

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not in resolved list")
		})

		Convey("An episode entry queues its season around itself", func() {
			catalog.items["e2"] = catalog.episodes[1]

			res, err := Resolve(catalog, Intent{ItemID: "e2"})

			So(err, ShouldBeNil)
			So(res.Items, ShouldHaveLength, 3)
			So(res.Index, ShouldEqual, 1)
		})

		Convey("Segment fetch failure degrades to no segments", func() {
			catalog.segmentsErr = fmt.Errorf("endpoint disabled")

			res, err := Resolve(catalog, Intent{ItemID: "season"})

			So(err, ShouldBeNil)
			So(res.Segments, ShouldBeEmpty)
		})
	})
}

func TestChooseAudio(t *testing.T) {
	Convey("Given audio selection", t, func() {
		Convey("A default-flagged stream wins", func() {
			source := plainSource()
			source.Streams[2].IsDefault = true

			So(chooseAudio(source), ShouldEqual, 2)
		})

		Convey("The configured language preference comes next", func() {
			viper.Set(key.PlaybackPreferAudioLanguage, "eng")
			defer viper.Set(key.PlaybackPreferAudioLanguage, "")

			So(chooseAudio(plainSource()), ShouldEqual, 2)
		})

		Convey("The source default is the last resort", func() {
			viper.Set(key.PlaybackPreferAudioLanguage, "kor")
			defer viper.Set(key.PlaybackPreferAudioLanguage, "")

			So(chooseAudio(plainSource()), ShouldEqual, 1)
		})

		Convey("No audio streams yields no selection", func() {
			source := plainSource()
			source.Streams = source.Streams[:1]

			So(chooseAudio(source), ShouldEqual, media.NoStream)
		})
	})
}

func TestDecorateSubtitle(t *testing.T) {
	Convey("Given subtitle decoration", t, func() {
		viper.Set(key.SubtitlesEnabled, true)
		catalog := &fakeCatalog{}

		withSubs := func() *media.Source {
			source := plainSource()
			source.Streams = append(source.Streams,
				media.Stream{Index: 3, Type: media.StreamSubtitle, Codec: "ass", Language: "eng"},
				media.Stream{Index: 4, Type: media.StreamSubtitle, Codec: "subrip", IsDefault: true, IsExternal: true},
			)
			return source
		}

		Convey("The negotiated index becomes the descriptor", func() {
			source := withSubs()
			source.SubtitleStreamIndex = 3

			decorateSubtitle(catalog, source, Intent{})

			So(source.Subtitle, ShouldNotBeNil)
			So(source.Subtitle.Format, ShouldEqual, "ass")
			So(source.Subtitle.Embedded(), ShouldBeTrue)
		})

		Convey("Without a negotiated index the default text stream is used", func() {
			source := withSubs()
			source.ItemID = "item"

			decorateSubtitle(catalog, source, Intent{})

			So(source.SubtitleStreamIndex, ShouldEqual, 4)
			So(source.Subtitle.Format, ShouldEqual, "subrip")
			So(source.Subtitle.URL, ShouldNotBeEmpty)
		})

		Convey("Disabling subtitles suppresses the descriptor", func() {
			source := withSubs()
			source.SubtitleStreamIndex = 3

			decorateSubtitle(catalog, source, Intent{DisableSubtitles: true})

			So(source.Subtitle, ShouldBeNil)
			So(source.SubtitleStreamIndex, ShouldEqual, media.NoStream)
		})

		Convey("Configuration off suppresses the automatic pick", func() {
			viper.Set(key.SubtitlesEnabled, false)
			defer viper.Set(key.SubtitlesEnabled, true)

			source := withSubs()
			decorateSubtitle(catalog, source, Intent{})

			So(source.Subtitle, ShouldBeNil)
			So(source.SubtitleStreamIndex, ShouldEqual, media.NoStream)
		})

		Convey("An explicit index overrides the configuration", func() {
			viper.Set(key.SubtitlesEnabled, false)
			defer viper.Set(key.SubtitlesEnabled, true)

			source := withSubs()
			source.SubtitleStreamIndex = 3
			decorateSubtitle(catalog, source, Intent{})

			So(source.Subtitle, ShouldNotBeNil)
			So(source.Subtitle.Format, ShouldEqual, "ass")
		})

		Convey("A non-subtitle index is cleared", func() {
			source := withSubs()
			source.SubtitleStreamIndex = 1

			decorateSubtitle(catalog, source, Intent{})

			So(source.Subtitle, ShouldBeNil)
			So(source.SubtitleStreamIndex, ShouldEqual, media.NoStream)
		})
	})
}
