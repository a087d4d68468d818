package config

import (
	"testing"

	"github.com/jellysan-cli/jellysan/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				val := viper.Get(name)
				So(val, ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("playback.report_interval")
			So(result, ShouldEqual, "playback_report_interval")
		})

		Convey("Env should produce prefixed variable names", func() {
			f := Default["playback.report_interval"]
			So(f.Env(), ShouldEqual, "JELLYSAN_PLAYBACK_REPORT_INTERVAL")
		})
	})
}
