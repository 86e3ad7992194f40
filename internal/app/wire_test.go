package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/cohortinsights/internal/app"
	"github.com/okian/cohortinsights/internal/config"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const fixturePath = "../adapters/repository/testdata/fixture.yaml"

func TestOpenStore(t *testing.T) {
	Convey("Given a configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		acme := model.CompanyFilter{CompanyID: "c1"}

		Convey("The memory driver without a fixture starts empty", func() {
			st, err := service.OpenStore(ctx, cfg)
			So(err, ShouldBeNil)
			rows, err := st.Sessions(ctx, acme)
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})

		Convey("The memory driver loads the fixture", func() {
			cfg.FixturePath = fixturePath
			st, err := service.OpenStore(ctx, cfg)
			So(err, ShouldBeNil)
			rows, err := st.Sessions(ctx, acme)
			So(err, ShouldBeNil)
			So(rows, ShouldNotBeEmpty)
		})

		Convey("The sqlite driver is migrated and seeded", func() {
			cfg.DataDriver = config.DriverSQLite
			cfg.FixturePath = fixturePath
			st, err := service.OpenStore(ctx, cfg)
			So(err, ShouldBeNil)
			defer st.Close()

			rows, err := st.Sessions(ctx, acme)
			So(err, ShouldBeNil)
			So(rows, ShouldNotBeEmpty)
			for _, r := range rows {
				So(r.CompanyID, ShouldEqual, "c1")
			}
		})

		Convey("A missing fixture is an error", func() {
			cfg.FixturePath = "testdata/missing.yaml"
			_, err := service.OpenStore(ctx, cfg)
			So(err, ShouldNotBeNil)
		})

		Convey("An unknown driver is rejected", func() {
			cfg.DataDriver = "mongo"
			_, err := service.OpenStore(ctx, cfg)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestTaskTimeout(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := config.New()

		Convey("A job may take both calls, three retries and every delay", func() {
			want := 2*time.Second + 5*120*time.Second + (15+30+60)*time.Second
			So(service.TaskTimeout(cfg), ShouldEqual, want)
		})

		Convey("Without retries only the two calls and the pause remain", func() {
			cfg.MaxRetries = 0
			So(service.TaskTimeout(cfg), ShouldEqual, 2*time.Second+240*time.Second)
		})
	})
}

func TestOptionsFromConfig(t *testing.T) {
	Convey("Given a configured service", t, func() {
		cfg := config.New()
		cfg.InsightWorkers = 3
		cfg.InsightQueueSize = 7
		cfg.Aliases.Version = "2025-01"
		cfg.QuoteKeywords = config.QuoteKeywords{Negative: map[string]float64{"boring": 4}}

		st, err := service.OpenStore(context.Background(), cfg)
		So(err, ShouldBeNil)
		svc := service.New(st, echoGenerator{}, service.Options(cfg, logger.Get())...)

		Convey("The options reach the service", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 3)
			So(stats["queueSize"], ShouldEqual, 7)
			So(stats["aliasVersion"], ShouldEqual, "2025-01")
		})

		Convey("The orchestrator can be built from the same configuration", func() {
			So(service.NewOrchestrator(cfg, logger.Get()), ShouldNotBeNil)
		})
	})
}
