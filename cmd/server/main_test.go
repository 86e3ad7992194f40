package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	service "github.com/okian/cohortinsights/internal/app"
	"github.com/okian/cohortinsights/internal/auth"
	"github.com/okian/cohortinsights/internal/config"
	"github.com/okian/cohortinsights/internal/domain/insight"
	"github.com/okian/cohortinsights/internal/domain/model"
	"github.com/okian/cohortinsights/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		panic(err)
	}
}

type staticGenerator struct{}

func (staticGenerator) Generate(_ context.Context, req insight.Request) (insight.Result, error) {
	return insight.Result{Insights: "insights for " + req.CompanyName}, nil
}

func TestRunWithInvalidConfig(t *testing.T) {
	convey.Convey("Given an invalid configuration", t, func() {
		_ = os.Setenv("INSIGHTS_DATA_DRIVER", "mongo")
		defer func() { _ = os.Unsetenv("INSIGHTS_DATA_DRIVER") }()

		convey.Convey("Then run fails before serving", func() {
			convey.So(run(context.Background()), convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a configuration without a jwt secret", t, func() {
		_ = os.Unsetenv("INSIGHTS_JWT_SECRET")

		convey.Convey("Then run refuses to start", func() {
			err := run(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "jwt_secret")
		})
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given the server handler on the fixture dataset", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg := config.New()
		cfg.FixturePath = "../../internal/adapters/repository/testdata/fixture.yaml"
		cfg.InsightWorkers = 1

		store, err := service.OpenStore(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		svc := service.New(store, staticGenerator{}, service.Options(cfg, logger.Get())...)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		authn, err := auth.NewAuthenticator([]byte("secret"))
		convey.So(err, convey.ShouldBeNil)
		token, err := authn.IssueToken("hr@acme", nil, model.CompanyFilter{CompanyID: "c1", AccountName: "Acme Corp"}, time.Hour)
		convey.So(err, convey.ShouldBeNil)

		h := newHandler(ctx, svc, authn)
		get := func(target, token string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec
		}

		convey.Convey("Then docs and metrics are public", func() {
			convey.So(get("/api-docs", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz", "").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the dashboard requires a token", func() {
			convey.So(get("/v1/dashboard", "").Code, convey.ShouldEqual, http.StatusUnauthorized)
			convey.So(get("/v1/dashboard?program=GROW", token).Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the metrics updater reads the service stats", func() {
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}
