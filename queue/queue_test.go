package queue

import (
	"testing"

	"github.com/jellysan-cli/jellysan/media"
	. "github.com/smartystreets/goconvey/convey"
)

func makeItems(ids ...string) []*media.Item {
	items := make([]*media.Item, len(ids))
	for i, id := range ids {
		items[i] = &media.Item{ID: id, Name: id}
	}
	return items
}

func TestQueue(t *testing.T) {
	Convey("Given a queue", t, func() {
		q := New()

		Convey("When empty", func() {
			So(q.Len(), ShouldEqual, 0)
			So(q.Current().IsPresent(), ShouldBeFalse)
			So(q.HasNext(), ShouldBeFalse)
			So(q.HasPrevious(), ShouldBeFalse)

			_, moved := q.Advance(Next)
			So(moved, ShouldBeFalse)
		})

		Convey("When set with items", func() {
			q.Set(makeItems("a", "b", "c"), 1)

			So(q.Len(), ShouldEqual, 3)
			So(q.Current().MustGet().ID, ShouldEqual, "b")

			Convey("Set clamps an out-of-range index", func() {
				q.Set(makeItems("a", "b"), 99)
				So(q.Index(), ShouldEqual, 1)

				q.Set(makeItems("a", "b"), -5)
				So(q.Index(), ShouldEqual, 0)
			})

			Convey("Advance moves the cursor both ways", func() {
				item, moved := q.Advance(Next)
				So(moved, ShouldBeTrue)
				So(item.ID, ShouldEqual, "c")

				_, moved = q.Advance(Next)
				So(moved, ShouldBeFalse)
				So(q.Current().MustGet().ID, ShouldEqual, "c")

				item, moved = q.Advance(Previous)
				So(moved, ShouldBeTrue)
				So(item.ID, ShouldEqual, "b")
			})

			Convey("Advance at the front boundary is a no-op", func() {
				q.Jump(0)
				_, moved := q.Advance(Previous)
				So(moved, ShouldBeFalse)
				So(q.Index(), ShouldEqual, 0)
			})

			Convey("Jump rejects out-of-range indices", func() {
				_, ok := q.Jump(3)
				So(ok, ShouldBeFalse)
				So(q.Index(), ShouldEqual, 1)

				item, ok := q.Jump(2)
				So(ok, ShouldBeTrue)
				So(item.ID, ShouldEqual, "c")
			})

			Convey("Clear empties the queue", func() {
				q.Clear()
				So(q.Len(), ShouldEqual, 0)
				So(q.Current().IsPresent(), ShouldBeFalse)
			})
		})

		Convey("When reordering", func() {
			q.Set(makeItems("a", "b", "c", "d"), 2)

			Convey("The playing member stays current across a move", func() {
				q.Reorder(0, 3)

				So(q.Items()[3].ID, ShouldEqual, "a")
				So(q.Current().MustGet().ID, ShouldEqual, "c")
				So(q.Index(), ShouldEqual, 1)
			})

			Convey("Moving the playing member itself tracks it", func() {
				q.Reorder(2, 0)

				So(q.Items()[0].ID, ShouldEqual, "c")
				So(q.Current().MustGet().ID, ShouldEqual, "c")
				So(q.Index(), ShouldEqual, 0)
			})

			Convey("Out-of-range positions are rejected", func() {
				q.Reorder(0, 9)
				So(q.Items()[0].ID, ShouldEqual, "a")
				So(q.Index(), ShouldEqual, 2)
			})

			Convey("Equal positions are a no-op", func() {
				q.Reorder(1, 1)
				So(q.Items()[1].ID, ShouldEqual, "b")
			})
		})
	})
}
