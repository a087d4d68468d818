package history

import (
	"testing"

	"github.com/jellysan-cli/jellysan/filesystem"
	"github.com/jellysan-cli/jellysan/media"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an episode", t, func() {
		item := &media.Item{
			ID:          "e42",
			Name:        "The One With the Cliffhanger",
			Kind:        media.KindEpisode,
			SeriesID:    "s1",
			SeriesName:  "Some Show",
			IndexNumber: 42,
		}

		Convey("When saving the item", func() {
			err := Save(item, 0.5)

			Convey("Then the record should be persisted", func() {
				So(err, ShouldBeNil)

				entries, err := Get()
				So(err, ShouldBeNil)
				So(entries[item.ID].Name, ShouldEqual, item.Name)
				So(entries[item.ID].WatchedPercentage, ShouldEqual, 0.5)
			})

			Convey("Then a lower percentage never regresses the record", func() {
				So(Save(item, 0.2), ShouldBeNil)

				entries, err := Get()
				So(err, ShouldBeNil)
				So(entries[item.ID].WatchedPercentage, ShouldEqual, 0.5)
			})

			Convey("Then removing deletes the record", func() {
				entries, _ := Get()
				So(Remove(entries[item.ID]), ShouldBeNil)

				entries, err := Get()
				So(err, ShouldBeNil)
				So(entries, ShouldNotContainKey, item.ID)
			})
		})
	})
}
