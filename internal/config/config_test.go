package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/LeighHMitchell/AIMS-sub016/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("The defaults are sane and valid", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.MaxImportBytes, ShouldEqual, 50<<20)
			So(cfg.PreferredLang, ShouldEqual, "en")
			So(cfg.PercentageTolerance, ShouldEqual, 0.01)
			So(cfg.DataBackend, ShouldEqual, config.BackendMemory)
			So(cfg.Validate(), ShouldBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given invalid configurations", t, func() {
		Convey("An empty addr is rejected", func() {
			cfg := config.New()
			cfg.Addr = ""
			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("An unknown backend is rejected", func() {
			cfg := config.New()
			cfg.DataBackend = "etcd"
			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("The sqlite backend requires a db path", func() {
			cfg := config.New()
			cfg.DataBackend = config.BackendSQLite
			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)

			cfg.DBPath = "/tmp/aims.db"
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("A non-positive size ceiling is rejected", func() {
			cfg := config.New()
			cfg.MaxImportBytes = 0
			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		t.Setenv("AIMS_ADDR", ":7070")
		t.Setenv("AIMS_QUEUE_SIZE", "123")
		t.Setenv("AIMS_PREFERRED_LANG", "fr")

		Convey("Load layers them over the defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.QueueSize, ShouldEqual, 123)
			So(cfg.PreferredLang, ShouldEqual, "fr")
			So(cfg.LogLevel, ShouldEqual, "info")
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "aims.yaml")
		So(os.WriteFile(path, []byte("addr: \":6060\"\nworker_count: 7\n"), 0o600), ShouldBeNil)
		t.Setenv("AIMS_CONFIG", path)

		Convey("Load reads it", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.WorkerCount, ShouldEqual, 7)
		})

		Convey("Env still wins over the file", func() {
			t.Setenv("AIMS_ADDR", ":5050")
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":5050")
		})
	})
}

func TestLoadInvalid(t *testing.T) {
	Convey("Given an invalid environment value", t, func() {
		t.Setenv("AIMS_DATA_BACKEND", "etcd")

		Convey("Load surfaces the validation error", func() {
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
