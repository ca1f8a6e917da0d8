package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testIngredient struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
	Unit string `gorm:"size:32"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&testIngredient{}))
	return db
}

func setupSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func TestDBTracingConfigFromApp(t *testing.T) {
	t.Run("postgres with defaults", func(t *testing.T) {
		cfg := DBTracingConfigFromApp(config.TelemetryConfig{Enabled: true, DBTraceEnabled: true}, "postgres")
		assert.True(t, cfg.Enabled)
		assert.False(t, cfg.LogFullSQL)
		assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
		assert.Equal(t, "postgresql", cfg.DBSystem)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := DBTracingConfigFromApp(config.TelemetryConfig{
			Enabled:           true,
			DBTraceEnabled:    true,
			DBLogFullSQL:      true,
			DBSlowQueryThresh: time.Second,
		}, "sqlite")
		assert.True(t, cfg.LogFullSQL)
		assert.Equal(t, time.Second, cfg.SlowQueryThresh)
		assert.Equal(t, "sqlite", cfg.DBSystem)
	})

	t.Run("db tracing needs telemetry", func(t *testing.T) {
		cfg := DBTracingConfigFromApp(config.TelemetryConfig{Enabled: false, DBTraceEnabled: true}, "postgres")
		assert.False(t, cfg.Enabled)
	})
}

func TestDBTracingPlugin_RegisterOtelGorm_Disabled(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop())

	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.Nil(t, db.Callback().Query().Get("otel_slow_query:query"))
}

func TestDBTracingPlugin_RegisterOtelGorm_Enabled(t *testing.T) {
	db := setupTestDB(t)
	core, logs := observer.New(zap.InfoLevel)
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: 100 * time.Millisecond,
		DBSystem:        "sqlite",
	}, zap.New(core))

	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.NotNil(t, db.Callback().Query().Get("otel_slow_query:query"))
	assert.NotNil(t, db.Callback().Create().Get("otel_timing:before_create"))

	entries := logs.FilterMessage("Database tracing enabled").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sqlite", fields["db_system"])
	assert.Equal(t, false, fields["log_full_sql"])
}

func TestDBTracingPlugin_RegisterOtelGorm_Twice(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop())

	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.Error(t, plugin.RegisterOtelGorm(db), "otelgorm refuses a second registration")
}

func TestDBTracingPlugin_SpansForQueries(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupSpanRecorder(t)
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute,
		DBSystem:        "sqlite",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "handler")
	tx := db.WithContext(ctx)
	require.NoError(t, tx.Create(&testIngredient{Name: "salt", Unit: "g"}).Error)

	var found testIngredient
	require.NoError(t, tx.First(&found, "name = ?", "salt").Error)
	assert.Equal(t, "g", found.Unit)
	parent.End()

	spans := recorder.Ended()
	require.GreaterOrEqual(t, len(spans), 3)
	for _, s := range spans[:len(spans)-1] {
		assert.Equal(t, parent.SpanContext().TraceID(), s.SpanContext().TraceID())
	}
}

func TestSlowQueryCallback_AnnotatesSpan(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupSpanRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Millisecond}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-50*time.Millisecond))

	tx := db.WithContext(ctx)
	tx.Statement.Table = "ingredients"
	tx.Statement.RowsAffected = 3
	plugin.slowQueryCallback(tx)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "ingredients", attrs["db.sql.table"].AsString())
	assert.Equal(t, int64(3), attrs["db.rows_affected"].AsInt64())
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.GreaterOrEqual(t, attrs["db.query_duration_ms"].AsInt64(), int64(50))

	require.Len(t, spans[0].Events(), 1)
	event := spans[0].Events()[0]
	assert.Equal(t, "slow_query_warning", event.Name)
	assert.Equal(t, int64(1), attrMap(event.Attributes)["threshold_ms"].AsInt64())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestSlowQueryCallback_FastQuery(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupSpanRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now())
	plugin.slowQueryCallback(db.WithContext(ctx))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	_, slow := attrMap(spans[0].Attributes())["db.slow_query"]
	assert.False(t, slow)
	assert.Empty(t, spans[0].Events())
}

func TestSlowQueryCallback_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
	}{
		{"driver error", errors.New("disk I/O error"), codes.Error},
		{"record not found", gorm.ErrRecordNotFound, codes.Unset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			tp, recorder := setupSpanRecorder(t)
			plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, zap.NewNop())

			ctx, span := tp.Tracer("test").Start(context.Background(), "query")
			tx := db.WithContext(ctx)
			tx.Error = tt.err
			plugin.slowQueryCallback(tx)
			span.End()

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantStatus, spans[0].Status().Code)
		})
	}
}

func TestSlowQueryCallback_NoRecordingSpan(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Millisecond}, zap.NewNop())

	assert.NotPanics(t, func() {
		plugin.slowQueryCallback(db.WithContext(context.Background()))
	})
}
