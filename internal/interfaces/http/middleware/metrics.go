package middleware

import (
	"time"

	"github.com/foodgram/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	// Logger reports instrument setup failures. Optional.
	Logger *zap.Logger
}

// Recipe creation carries base64 images, so the request buckets reach 5MB
var (
	requestSizeBuckets  = []float64{100, 1000, 10000, 100000, 500000, 1000000, 5000000}
	responseSizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 1000000}
)

type httpInstruments struct {
	requests     *telemetry.Counter
	duration     *telemetry.Histogram
	requestSize  *telemetry.Histogram
	responseSize *telemetry.Histogram
	inFlight     metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	var (
		in  httpInstruments
		err error
	)
	if in.requests, err = telemetry.NewCounter(meter, "http_server_request_total",
		"Total number of HTTP requests", "{request}"); err != nil {
		return nil, err
	}
	histograms := []struct {
		dst  **telemetry.Histogram
		opts telemetry.HistogramOpts
	}{
		{&in.duration, telemetry.HistogramOpts{
			Name:        "http_server_request_duration_seconds",
			Description: "HTTP request latency in seconds",
			Unit:        "s",
			Boundaries:  telemetry.HTTPDurationBuckets,
		}},
		{&in.requestSize, telemetry.HistogramOpts{
			Name:        "http_server_request_size_bytes",
			Description: "HTTP request body size in bytes",
			Unit:        "By",
			Boundaries:  requestSizeBuckets,
		}},
		{&in.responseSize, telemetry.HistogramOpts{
			Name:        "http_server_response_size_bytes",
			Description: "HTTP response body size in bytes",
			Unit:        "By",
			Boundaries:  responseSizeBuckets,
		}},
	}
	for _, h := range histograms {
		if *h.dst, err = telemetry.NewHistogram(meter, h.opts); err != nil {
			return nil, err
		}
	}
	if in.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of HTTP requests being served"),
		metric.WithUnit("{request}")); err != nil {
		return nil, err
	}
	return &in, nil
}

// HTTPMetrics records request count, latency, body sizes and in-flight
// requests per route. It is a pass-through when metrics are disabled.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return passThrough
	}
	return HTTPMetricsWithMeter(cfg.MeterProvider.Meter("http.server"), cfg.Logger)
}

func HTTPMetricsWithMeter(meter metric.Meter, logger *zap.Logger) gin.HandlerFunc {
	in, err := newHTTPInstruments(meter)
	if err != nil {
		if logger != nil {
			logger.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		in.inFlight.Add(ctx, 1)
		c.Next()
		in.inFlight.Add(ctx, -1)

		// Labels use the route pattern; raw paths would carry recipe ids
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}
		status := c.Writer.Status()

		in.requests.Inc(ctx, append(attrs,
			telemetry.AttrHTTPStatusCode.Int(status),
			telemetry.AttrHTTPStatusClass.String(HTTPMetricsStatusGroup(status)),
		)...)
		in.duration.RecordDuration(ctx, time.Since(start), attrs...)
		if n := c.Request.ContentLength; n > 0 {
			in.requestSize.Record(ctx, float64(n), attrs...)
		}
		if n := c.Writer.Size(); n > 0 {
			in.responseSize.Record(ctx, float64(n), attrs...)
		}
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

// HTTPMetricsStatusGroup buckets a status code into 2xx, 3xx, 4xx, 5xx or other
func HTTPMetricsStatusGroup(statusCode int) string {
	if statusCode < 200 || statusCode >= 600 {
		return "other"
	}
	return string(rune('0'+statusCode/100)) + "xx"
}
