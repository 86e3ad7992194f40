package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/cohortinsights/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DataDriver, convey.ShouldEqual, config.DriverMemory)
			convey.So(cfg.ContextDelayMS, convey.ShouldEqual, 2000)
			convey.So(cfg.RetryBaseDelayMS, convey.ShouldEqual, 15000)
			convey.So(cfg.MaxRetries, convey.ShouldEqual, 3)
			convey.So(cfg.InsightWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DefaultSessionsPerEmployee, convey.ShouldEqual, 5)
			convey.So(cfg.QuoteLimit, convey.ShouldEqual, 5)
			convey.So(cfg.ThemeTopN, convey.ShouldEqual, 5)
			convey.So(cfg.Aliases.Version, convey.ShouldNotBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
