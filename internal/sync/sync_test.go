package sync

import (
	"fmt"
	"os"
	"testing"

	"github.com/jellysan-cli/jellysan/filesystem"
	"github.com/jellysan-cli/jellysan/where"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestOfflineQueue(t *testing.T) {
	Convey("Offline queue", t, func() {
		_ = filesystem.API().Remove(where.SyncQueue())

		Convey("Pending is empty when nothing has been queued", func() {
			pending, err := Pending()
			So(err, ShouldBeNil)
			So(pending, ShouldBeEmpty)
		})

		Convey("QueueFailure appends mutations in insertion order", func() {
			So(QueueFailure("ep1", "MarkPlayed", "/Users/u1/PlayedItems/ep1"), ShouldBeNil)
			So(QueueFailure("ep2", "MarkFavorite", "/Users/u1/FavoriteItems/ep2"), ShouldBeNil)

			pending, err := Pending()
			So(err, ShouldBeNil)
			So(len(pending), ShouldEqual, 2)
			So(pending[0].ItemID, ShouldEqual, "ep1")
			So(pending[0].Action, ShouldEqual, "MarkPlayed")
			So(pending[1].Path, ShouldEqual, "/Users/u1/FavoriteItems/ep2")
			So(pending[0].Timestamp, ShouldBeGreaterThan, 0)
		})

		Convey("A corrupt line is skipped, not fatal", func() {
			So(QueueFailure("ep1", "MarkPlayed", "/p"), ShouldBeNil)

			f, err := filesystem.API().OpenFile(where.SyncQueue(), os.O_APPEND|os.O_WRONLY, 0644)
			So(err, ShouldBeNil)
			_, _ = f.WriteString("not json\n")
			f.Close()

			pending, err := Pending()
			So(err, ShouldBeNil)
			So(len(pending), ShouldEqual, 1)
		})
	})
}

func TestReplayPaths(t *testing.T) {
	Convey("Queued mutations carry replayable paths", t, func() {
		_ = filesystem.API().Remove(where.SyncQueue())

		So(QueueFailure("ep1", "MarkPlayed", "/Users/u1/PlayedItems/ep1"), ShouldBeNil)

		pending, err := Pending()
		So(err, ShouldBeNil)
		So(len(pending), ShouldEqual, 1)

		var replayed []string
		for _, m := range pending {
			replayed = append(replayed, m.Path)
		}
		So(fmt.Sprint(replayed), ShouldContainSubstring, "/Users/u1/PlayedItems/ep1")
	})
}
