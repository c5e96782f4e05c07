package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
)

// TracingHandler is an [slog.Handler] that adds the active trace and span ids
// to every record. Service attributes and trace ids stay at the top level
// under WithGroup: groups and attributes added later are replayed on top of
// the trace ids.
type TracingHandler struct {
	base  slog.Handler
	inner slog.Handler
	ops   []handlerOp
}

// handlerOp is a WithGroup (group set) or WithAttrs call.
type handlerOp struct {
	group string
	attrs []slog.Attr
}

// NewTracingHandler wraps inner with trace context and service metadata.
func NewTracingHandler(inner slog.Handler, service, env string, appMode AppMode) *TracingHandler {
	attrs := []slog.Attr{
		slog.String(attrService, service),
		slog.String(attrMode, string(appMode)),
	}

	if env != "" {
		attrs = append(attrs, slog.String(attrEnv, env))
	}

	base := inner.WithAttrs(attrs)

	return &TracingHandler{base: base, inner: base}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle adds trace context attributes, then delegates.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	h := th.inner

	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		h = th.base.WithAttrs([]slog.Attr{
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		})

		for _, op := range th.ops {
			if op.group != "" {
				h = h.WithGroup(op.group)
			} else {
				h = h.WithAttrs(op.attrs)
			}
		}
	}

	err := h.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs implements [slog.Handler].
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return th
	}

	return th.with(handlerOp{attrs: attrs}, th.inner.WithAttrs(attrs))
}

// WithGroup implements [slog.Handler].
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return th
	}

	return th.with(handlerOp{group: name}, th.inner.WithGroup(name))
}

func (th *TracingHandler) with(op handlerOp, inner slog.Handler) *TracingHandler {
	ops := make([]handlerOp, len(th.ops), len(th.ops)+1)
	copy(ops, th.ops)

	return &TracingHandler{base: th.base, inner: inner, ops: append(ops, op)}
}
