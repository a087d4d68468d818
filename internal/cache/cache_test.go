package cache

import (
	"testing"

	"github.com/jellysan-cli/jellysan/filesystem"
	"github.com/jellysan-cli/jellysan/key"
	"github.com/spf13/viper"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGenerateKey(t *testing.T) {
	Convey("GenerateKey", t, func() {
		Convey("Should be deterministic for the same lookup and server", func() {
			So(GenerateKey("item:ep1", "http://server"), ShouldEqual, GenerateKey("item:ep1", "http://server"))
		})

		Convey("Should ignore case and spacing in the lookup", func() {
			So(GenerateKey("Some Lookup", "s"), ShouldEqual, GenerateKey("somelookup", "s"))
		})

		Convey("Should differ across servers", func() {
			So(GenerateKey("item:ep1", "http://a"), ShouldNotEqual, GenerateKey("item:ep1", "http://b"))
		})
	})
}

func TestReadWrite(t *testing.T) {
	Convey("Read/Write", t, func() {
		key := GenerateKey("item:roundtrip", "test")

		Convey("Write then Read should round-trip the object", func() {
			So(Write(key, payload{Name: "pilot", Count: 3}), ShouldBeNil)

			var got payload
			So(Read(key, &got), ShouldBeTrue)
			So(got.Name, ShouldEqual, "pilot")
			So(got.Count, ShouldEqual, 3)
		})

		Convey("Read misses for an unknown key", func() {
			var got payload
			So(Read("does-not-exist", &got), ShouldBeFalse)
		})
	})
}

func TestTTL(t *testing.T) {
	Convey("TTL", t, func() {
		Convey("Should fall back to a week when unset", func() {
			viper.Set(key.CacheTTLHours, 0)
			So(TTL().Hours(), ShouldEqual, 168)
		})

		Convey("Should honor the configured lifetime", func() {
			viper.Set(key.CacheTTLHours, 24)
			So(TTL().Hours(), ShouldEqual, 24)
			viper.Set(key.CacheTTLHours, 0)
		})
	})
}
