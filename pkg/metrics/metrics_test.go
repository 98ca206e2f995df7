package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "staffboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("test_prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.cacheHits.Inc()

			Convey("Then metric names should carry namespace, subsystem and prefix", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_test_prefix_cache_hits_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are supplied", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithMetricPrefix(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "staffboard")
				So(manager.subsystem, ShouldEqual, "core")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global recorders", t, func() {
		Convey("Then cache recorders should not panic", func() {
			So(func() {
				RecordCacheHit()
				RecordCacheMiss()
				RecordSharedFlight()
				UpdateCacheEntries(3)
				UpdateCacheSubscribers(5)
				RecordInvalidation("Project")
				RecordRefetch("invalidated")
				RecordEviction()
				RecordMutation("POST", "ok")
				RecordDiscardedResult()
			}, ShouldNotPanic)
		})

		Convey("And transport and aggregation recorders should not panic", func() {
			So(func() {
				RecordTransportRequest("GET", "200")
				RecordTransportLatency("GET", 12.5)
				RecordTransportError("timeout")
				RecordAggregationLatency("summary", 0.3)
			}, ShouldNotPanic)
		})

		Convey("And HTTP, queue and worker recorders should not panic", func() {
			So(func() {
				RecordHTTPRequest("/analytics/summary", "GET", "200")
				RecordHTTPRequestDuration("/analytics/summary", "GET", "200", 4)
				UpdateQueueSize(10)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.1)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueCoalesced()
				UpdateWorkerCount(4)
				RecordWorkerProcessingLatency(3)
				RecordWorkerError()
				RecordErrorByComponent("cache", "transport")
				RecordErrorByEndpoint("/projects/staffing", "GET", "upstream_error")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)
		})

		Convey("And the custom registry should expose recorded families", func() {
			RecordCacheHit()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "staffboard_core_cache_hits_total")
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordCacheHit()
					RecordTransportRequest("GET", "200")
					UpdateCacheEntries(j)
				}
			}()
		}
		wg.Wait()

		Convey("Then nothing should race or panic", func() {
			So(true, ShouldBeTrue)
		})
	})
}

func TestSinceMs(t *testing.T) {
	Convey("Given a start time in the past", t, func() {
		start := time.Now().Add(-5 * time.Millisecond)

		Convey("Then SinceMs should report at least the elapsed time", func() {
			So(SinceMs(start), ShouldBeGreaterThanOrEqualTo, 5)
		})
	})
}
