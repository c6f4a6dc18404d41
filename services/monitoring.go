package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lac-hong-legacy/salita_api/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	MONITORING_SVC          = "monitoring_svc"
	SERVICE_NAME            = "salita_api"
	DEFAULT_PROMETHEUS_PORT = 2112
)

const (
	OutcomeSuccess          = "success"
	OutcomeGenerationFailed = "generation_failed"
	OutcomeSchemaFailed     = "schema_failed"
	OutcomeStorageFailed    = "storage_failed"
)

// PracticeMetrics is what the session coordinator reports.
type PracticeMetrics interface {
	SessionStarted(mode string)
	QuotaRejected()
	FeedbackGenerated(outcome string, elapsed time.Duration)
}

type metricSet struct {
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	httpResponseSizeBytes      *prometheus.HistogramVec

	sessionsStartedTotal       *prometheus.CounterVec
	quotaRejectionsTotal       prometheus.Counter
	feedbackGenerationsTotal   *prometheus.CounterVec
	feedbackGenerationDuration *prometheus.HistogramVec
}

func newMetricSet() *metricSet {
	return &metricSet{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"endpoint", "method", "status"},
		),
		httpRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"endpoint", "method", "status"},
		),
		httpResponseSizeBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response payload size in bytes",
				Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
			},
			[]string{"endpoint", "method"},
		),
		sessionsStartedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "practice_sessions_started_total",
				Help: "Practice sessions started, by mode",
			},
			[]string{"mode"},
		),
		quotaRejectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "practice_quota_rejections_total",
				Help: "Session starts refused because the daily limit was reached",
			},
		),
		feedbackGenerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedback_generations_total",
				Help: "Feedback generation attempts, by outcome",
			},
			[]string{"outcome"},
		),
		feedbackGenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feedback_generation_duration_seconds",
				Help:    "Time spent generating and validating feedback",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"outcome"},
		),
	}
}

func (m *metricSet) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDurationSeconds,
		m.httpResponseSizeBytes,
		m.sessionsStartedTotal,
		m.quotaRejectionsTotal,
		m.feedbackGenerationsTotal,
		m.feedbackGenerationDuration,
	}
}

type MonitoringService struct {
	appContext.DefaultService

	port     int
	register *prometheus.Registry
	metrics  *metricSet
	server   *fiber.App
}

// NewMonitoringService builds the registry without opening a listener.
func NewMonitoringService() *MonitoringService {
	svc := &MonitoringService{}
	svc.init()
	return svc
}

func (svc MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *appContext.Context) error {
	svc.port = getEnvInt("PROMETHEUS_PORT", DEFAULT_PROMETHEUS_PORT)
	svc.init()
	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) init() {
	if svc.register != nil {
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc.metrics = newMetricSet()
	reg.MustRegister(svc.metrics.collectors()...)
	svc.register = reg
}

// Start serves /metrics on its own port. The listener runs in the background
// so the container can go on to start the API server.
func (svc *MonitoringService) Start() error {
	svc.server = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	})
	svc.server.Use(recover.New())

	svc.server.Get("/metrics", svc.metricsHandler())
	svc.server.Get("/health", svc.healthHandler)

	go func() {
		if err := svc.server.Listen(fmt.Sprintf(":%v", svc.port)); err != nil {
			log.Error().Err(err).Int("port", svc.port).Msg("Prometheus metrics server stopped")
		}
	}()

	log.Info().Int("port", svc.port).Msg("Prometheus metrics server started")
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *MonitoringService) Registry() *prometheus.Registry {
	return svc.register
}

func (svc *MonitoringService) metricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(svc.register, promhttp.HandlerOpts{}))
}

func (svc *MonitoringService) healthHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   SERVICE_NAME,
		"timestamp": time.Now().Unix(),
	})
}

func (svc *MonitoringService) RecordRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	svc.metrics.httpRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	svc.metrics.httpRequestDurationSeconds.WithLabelValues(endpoint, method, status).Observe(duration.Seconds())
	svc.metrics.httpResponseSizeBytes.WithLabelValues(endpoint, method).Observe(float64(responseSize))
}

func (svc *MonitoringService) SessionStarted(mode string) {
	if mode == "" {
		mode = "unspecified"
	}
	svc.metrics.sessionsStartedTotal.WithLabelValues(mode).Inc()
}

func (svc *MonitoringService) QuotaRejected() {
	svc.metrics.quotaRejectionsTotal.Inc()
}

func (svc *MonitoringService) FeedbackGenerated(outcome string, elapsed time.Duration) {
	svc.metrics.feedbackGenerationsTotal.WithLabelValues(outcome).Inc()
	svc.metrics.feedbackGenerationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// MonitoringMiddleware records request count, latency and size per route pattern.
func MonitoringMiddleware(svc *MonitoringService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		method := c.Method()

		err := c.Next()

		// route is only resolved after the chain ran
		endpoint := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err)
		}

		svc.RecordRequest(method, endpoint, strconv.Itoa(status), time.Since(start), len(c.Response().Body()))
		return err
	}
}

// errorStatus is the status the error handler will write for err.
func errorStatus(err error) int {
	if appErr, ok := shared.GetAppError(err); ok {
		return appErr.StatusCode
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}
