package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of spans opened by the services
const TracerName = "github.com/foodgram/backend"

const (
	SpanAttrRecipeID = "recipe.id"
	SpanAttrUserID   = "user.id"
	SpanAttrAuthorID = "author.id"
	SpanAttrCount    = "result.count"
)

// StartServiceSpan opens an internal span named "<service>.<method>" on the
// global tracer provider. keyValues are alternating string keys and values.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "recipe", "create", telemetry.SpanAttrUserID, id)
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, keyValues ...any) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(pairs(keyValues)...),
	)
}

func SetAttributes(span trace.Span, keyValues ...any) {
	if span != nil {
		span.SetAttributes(pairs(keyValues)...)
	}
}

// RecordError marks span failed with err. A nil span or error is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// pairs drops entries whose key is not a string and a trailing odd value
func pairs(keyValues []any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for ; len(keyValues) >= 2; keyValues = keyValues[2:] {
		if key, ok := keyValues[0].(string); ok {
			out = append(out, attr(attribute.Key(key), keyValues[1]))
		}
	}
	return out
}

func attr(k attribute.Key, v any) attribute.KeyValue {
	switch v := v.(type) {
	case string:
		return k.String(v)
	case bool:
		return k.Bool(v)
	case int:
		return k.Int(v)
	case int64:
		return k.Int64(v)
	case float64:
		return k.Float64(v)
	case []string:
		return k.StringSlice(v)
	case fmt.Stringer:
		return k.String(v.String())
	}
	return k.String(fmt.Sprint(v))
}
