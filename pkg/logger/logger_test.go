package logger_test

import (
	"context"
	"testing"

	"github.com/LeighHMitchell/AIMS-sub016/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Get returns a usable logger", func() {
			l := logger.Get()
			So(l, ShouldNotBeNil)
			// Should not panic.
			l.Info(context.Background(), "hello", logger.String("k", "v"))
		})

		Convey("Named returns a scoped logger", func() {
			l := logger.Named("importer")
			So(l, ShouldNotBeNil)
			l.Debug(context.Background(), "scoped", logger.Int("n", 1))
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Known levels are accepted", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Unknown levels are rejected", func() {
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
