package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register on the given registry", func() {
				So(manager, ShouldNotBeNil)
				manager.dashboardLoads.WithLabelValues("GROW").Inc()
				n, err := testutil.GatherAndCount(registry, "cohort_insights_dashboard_loads_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("svc"),
				WithMetricPrefix("pfx"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and labels follow the options", func() {
				manager.llmRetries.Inc()
				So(testutil.ToFloat64(manager.llmRetries), ShouldEqual, 1)
				n, err := testutil.GatherAndCount(registry, "test_svc_pfx_llm_retries_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When metrics are disabled", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(registry))
			manager.llmRetries.Inc()

			Convey("Then nothing is exported on the given registry", func() {
				n, err := testutil.GatherAndCount(registry)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})

		Convey("When options carry empty values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithRefreshInterval(-1*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "cohort")
				So(manager.subsystem, ShouldEqual, "insights")
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording insight metrics", func() {
			before := testutil.ToFloat64(globalManager.insightRequests.WithLabelValues("success"))
			RecordInsightRequest("success")
			RecordLLMRetry()
			RecordContextFallback()
			RecordStaleInsight()
			RecordLLMCallLatency("generation", 1200)

			Convey("Then counters advance", func() {
				So(testutil.ToFloat64(globalManager.insightRequests.WithLabelValues("success")), ShouldEqual, before+1)
			})
		})

		Convey("When recording dashboard and repository metrics", func() {
			So(func() {
				RecordDashboardLoad("SCALE")
				RecordAggregationLatency(3.5)
				RecordRowsPartitioned("sessions", 10, 2, 1)
				RecordFetchError("surveys")
				RecordRepositoryQueryLatency("sessions", 4)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.rowsPartitioned.WithLabelValues("sessions", "ambiguous")), ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("When recording queue, worker and HTTP metrics", func() {
			So(func() {
				UpdateQueueSize(3)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.03)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(12)
				UpdateWorkerCount(2)
				UpdateWorkerActiveCount(1)
				UpdateWorkerIdleCount(1)
				RecordWorkerProcessingLatency(30000)
				RecordWorkerError()
				RecordHTTPRequest("/v1/dashboard", "GET", "200")
				RecordHTTPRequestDuration("/v1/dashboard", "GET", "200", 8)
				RecordErrorByComponent("insight", "rate_limited")
				RecordErrorByType("validation", "warning")
				RecordErrorByEndpoint("/v1/insights", "POST", "forbidden")
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 3)
		})
	})
}

func TestSystemCollector(t *testing.T) {
	Convey("Given a running system collector", t, func() {
		UpdateSystemMemoryUsage(0)
		UpdateSystemGoroutineCount(0)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			collectSystem(ctx, time.Millisecond)
			close(done)
		}()
		time.Sleep(5 * time.Millisecond)
		cancel()
		<-done

		Convey("Then memory and goroutines are sampled into the global metrics", func() {
			So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldBeGreaterThan, 0)
			So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldBeGreaterThan, 0)
		})
	})
}
