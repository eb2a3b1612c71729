package metrics

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"apiexplorer/internal/models"
)

var (
	entriesDesc = prometheus.NewDesc(
		"apiexplorer_entries",
		"Number of catalog entries by status and visibility",
		[]string{"status", "active"},
		nil,
	)

	votesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apiexplorer_votes_total",
		Help: "Votes cast, by direction and the resulting entry status",
	}, []string{"direction", "status"})

	moderationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apiexplorer_moderation_decisions_total",
		Help: "Moderation decisions by outcome",
	}, []string{"decision"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apiexplorer_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apiexplorer_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "route"})
)

// StatusCounter reports entry counts grouped by status and visibility.
type StatusCounter interface {
	CountEntriesByStatus(ctx context.Context) ([]models.StatusCount, error)
}

// EntryCollector is a custom Prometheus collector that reads entry counts
// from the database on each scrape.
type EntryCollector struct {
	counter StatusCounter
}

// NewEntryCollector creates a collector backed by counter.
func NewEntryCollector(counter StatusCounter) *EntryCollector {
	return &EntryCollector{counter: counter}
}

// Describe sends the metric descriptor to the channel.
func (c *EntryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- entriesDesc
}

// Collect queries the entry counts and emits them as gauges.
func (c *EntryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := c.counter.CountEntriesByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect entry metrics", "error", err)
		return
	}
	for _, sc := range counts {
		ch <- prometheus.MustNewConstMetric(
			entriesDesc,
			prometheus.GaugeValue,
			float64(sc.Count),
			string(sc.Status),
			strconv.FormatBool(sc.Active),
		)
	}
}

var initOnce sync.Once

// Init registers the entry collector. Must be called once at startup.
func Init(counter StatusCounter) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewEntryCollector(counter))
	})
}

// RecordVote counts a vote and the status the entry ended up in.
func RecordVote(direction, status string) {
	votesTotal.WithLabelValues(direction, status).Inc()
}

// RecordModeration counts a moderation decision.
func RecordModeration(decision string) {
	moderationTotal.WithLabelValues(decision).Inc()
}

// Middleware records request counts and latency per matched route.
func Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpLatency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
