package telemetry

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetrics records query counts and latencies through a GORM plugin and
// reports connection pool state through observable gauges.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	registration   metric.Registration

	slowQueryThresh time.Duration
	logger          *zap.Logger
}

// NewDBMetrics creates the instruments and starts observing sqlDB's pool
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, slowQueryThresh time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if slowQueryThresh <= 0 {
		slowQueryThresh = 200 * time.Millisecond
	}

	queryTotal, err := NewCounter(meter, "db_query_total", "Total number of database queries by operation type", "{query}")
	if err != nil {
		return nil, err
	}
	queryDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	slowQueryTotal, err := NewCounter(meter, "db_slow_query_total", "Total number of queries above the slow query threshold", "{query}")
	if err != nil {
		return nil, err
	}

	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}
	maxConnections, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	registration, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(maxConnections, int64(stats.MaxOpenConnections))
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(connections, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		return nil
	}, connections, maxConnections)
	if err != nil {
		return nil, err
	}

	return &DBMetrics{
		queryTotal:      queryTotal,
		queryDuration:   queryDuration,
		slowQueryTotal:  slowQueryTotal,
		registration:    registration,
		slowQueryThresh: slowQueryThresh,
		logger:          logger,
	}, nil
}

// RecordQuery records one finished statement
func (m *DBMetrics) RecordQuery(ctx context.Context, operation string, duration time.Duration) {
	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation))
	m.queryDuration.RecordDuration(ctx, duration, AttrDBOperation.String(operation))
	if duration > m.slowQueryThresh {
		m.slowQueryTotal.Inc(ctx, AttrDBOperation.String(operation))
	}
}

// Stop unregisters the pool callback
func (m *DBMetrics) Stop() error {
	return m.registration.Unregister()
}

// Name implements gorm.Plugin
func (m *DBMetrics) Name() string {
	return "db_metrics"
}

type dbMetricsContextKey struct{}

// Initialize implements gorm.Plugin by timing every callback chain
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, dbMetricsContextKey{}, time.Now())
		}
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			ctx := tx.Statement.Context
			if ctx == nil {
				return
			}
			if start, ok := ctx.Value(dbMetricsContextKey{}).(time.Time); ok {
				m.RecordQuery(ctx, operation, time.Since(start))
			}
		}
	}

	for _, op := range gormOperations(db) {
		if err := op.before("db_metrics:before_"+op.name, before); err != nil {
			return err
		}
		if err := op.after("db_metrics:after_"+op.name, after(op.verb)); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDBMetrics installs DBMetrics on db when meterProvider is enabled.
// It returns nil metrics when metrics are disabled.
func RegisterDBMetrics(db *gorm.DB, meterProvider *MeterProvider, slowQueryThresh time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if meterProvider == nil || !meterProvider.IsEnabled() {
		logger.Debug("MeterProvider not available, skipping database metrics")
		return nil, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	metrics, err := NewDBMetrics(meterProvider.Meter("db.client"), sqlDB, slowQueryThresh, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Use(metrics); err != nil {
		_ = metrics.Stop()
		return nil, err
	}

	logger.Info("Database metrics registered", zap.Duration("slow_query_threshold", metrics.slowQueryThresh))
	return metrics, nil
}
