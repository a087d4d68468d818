package player

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestProcessEvent(t *testing.T) {
	Convey("Given an event listener", t, func() {
		var got []Event
		el := &eventListener{callback: func(e Event) { got = append(got, e) }}

		Convey("A natural end-file maps to exactly one ended event", func() {
			el.processEvent(`{"event":"end-file","reason":"eof"}`)

			So(got, ShouldHaveLength, 1)
			So(got[0].Type, ShouldEqual, EventEnded)
		})

		Convey("Stop and quit reasons are not ended events", func() {
			el.processEvent(`{"event":"end-file","reason":"stop"}`)
			el.processEvent(`{"event":"end-file","reason":"quit"}`)

			So(got, ShouldBeEmpty)
		})

		Convey("An error reason carries the failure", func() {
			el.processEvent(`{"event":"end-file","reason":"error","file_error":"demuxer died"}`)

			So(got, ShouldHaveLength, 1)
			So(got[0].Type, ShouldEqual, EventError)
			So(got[0].Err.Error(), ShouldContainSubstring, "demuxer died")
		})

		Convey("An eof-reached property change produces no ended event", func() {
			el.processEvent(`{"event":"property-change","name":"eof-reached","data":true}`)

			So(got, ShouldBeEmpty)
		})

		Convey("Observed properties translate to typed events", func() {
			el.processEvent(`{"event":"property-change","name":"time-pos","data":12.5}`)
			el.processEvent(`{"event":"property-change","name":"pause","data":true}`)
			el.processEvent(`{"event":"property-change","name":"seeking","data":false}`)

			So(got, ShouldHaveLength, 3)
			So(got[0].Type, ShouldEqual, EventPosition)
			So(got[0].Position, ShouldEqual, 12.5)
			So(got[1].Type, ShouldEqual, EventPause)
			So(got[1].Flag, ShouldBeTrue)
			So(got[2].Type, ShouldEqual, EventSeeking)
			So(got[2].Flag, ShouldBeFalse)
		})

		Convey("A file-loaded event signals readiness", func() {
			el.processEvent(`{"event":"file-loaded"}`)

			So(got, ShouldHaveLength, 1)
			So(got[0].Type, ShouldEqual, EventReady)
		})

		Convey("Unparseable lines are skipped", func() {
			el.processEvent(`not json`)

			So(got, ShouldBeEmpty)
		})
	})
}
