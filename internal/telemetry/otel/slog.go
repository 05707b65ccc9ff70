package otel

import (
	"context"
	"log/slog"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// NewSlogHandler returns a slog.Handler that forwards every record to next
// and, when provider is non-nil, also emits it as an OTel log record through
// the LoggerProvider. Emission is best-effort; the local handler remains the
// source of truth.
func NewSlogHandler(provider *sdklog.LoggerProvider, serviceName string, next slog.Handler) slog.Handler {
	if provider == nil {
		return next
	}
	return &otelSlogHandler{
		logger: provider.Logger(serviceName),
		next:   next,
	}
}

type otelSlogHandler struct {
	logger otellog.Logger
	next   slog.Handler
	attrs  []otellog.KeyValue
	group  string
}

func (h *otelSlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *otelSlogHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := otellog.Record{}
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetSeverity(severity(r.Level))
	rec.SetSeverityText(r.Level.String())
	rec.SetBody(otellog.StringValue(r.Message))
	rec.AddAttributes(h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		rec.AddAttributes(h.keyValue(a))
		return true
	})
	h.logger.Emit(ctx, rec)

	return h.next.Handle(ctx, r)
}

func (h *otelSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.next = h.next.WithAttrs(attrs)
	clone.attrs = make([]otellog.KeyValue, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.keyValue(a))
	}
	return &clone
}

func (h *otelSlogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.next = h.next.WithGroup(name)
	if name != "" {
		if clone.group != "" {
			clone.group = clone.group + "." + name
		} else {
			clone.group = name
		}
	}
	return &clone
}

func (h *otelSlogHandler) keyValue(a slog.Attr) otellog.KeyValue {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		return otellog.Bool(key, v.Bool())
	case slog.KindInt64:
		return otellog.Int64(key, v.Int64())
	case slog.KindUint64:
		return otellog.Int64(key, int64(v.Uint64()))
	case slog.KindFloat64:
		return otellog.Float64(key, v.Float64())
	case slog.KindDuration:
		return otellog.String(key, v.Duration().String())
	case slog.KindTime:
		return otellog.String(key, v.Time().Format(time.RFC3339Nano))
	default:
		return otellog.String(key, v.String())
	}
}

func severity(level slog.Level) otellog.Severity {
	switch {
	case level >= slog.LevelError:
		return otellog.SeverityError
	case level >= slog.LevelWarn:
		return otellog.SeverityWarn
	case level >= slog.LevelInfo:
		return otellog.SeverityInfo
	default:
		return otellog.SeverityDebug
	}
}
