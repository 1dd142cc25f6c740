// Package transferotel records transfer log events as OpenTelemetry spans.
package transferotel

import (
	"context"
	"time"

	transfer "github.com/goliatone/go-transfer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans emitted by this package.
const InstrumentationName = "github.com/goliatone/go-transfer/pkg/transferotel"

// Logger turns each transfer event into a completed span. Simulated
// transfers are skipped unless IncludeSimulate is set.
type Logger struct {
	tracer          trace.Tracer
	ctx             context.Context
	IncludeSimulate bool
}

var _ transfer.TransferLogger = (*Logger)(nil)

// New returns a Logger using tracer, or the global provider when tracer is nil.
// Spans are parented on ctx.
func New(ctx context.Context, tracer trace.Tracer) *Logger {
	if tracer == nil {
		tracer = otel.Tracer(InstrumentationName)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Logger{tracer: tracer, ctx: ctx}
}

// LogTransfer implements transfer.TransferLogger.
func (l *Logger) LogTransfer(event transfer.TransferLogEvent) {
	if event.Action.IsSimulate() && !l.IncludeSimulate {
		return
	}
	end := time.Now()
	_, span := l.tracer.Start(l.ctx, "transfer."+string(event.Operation),
		trace.WithTimestamp(end.Add(-event.Duration)),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("transfer.handler", event.Handler),
			attribute.String("transfer.action", event.Action.String()),
			attribute.Int64("transfer.requested", event.Requested),
			attribute.Int64("transfer.moved", event.Moved),
			attribute.Int("transfer.slot", event.Slot),
		),
	)
	if event.Err != nil {
		span.RecordError(event.Err)
		span.SetStatus(codes.Error, event.Err.Error())
	}
	span.End(trace.WithTimestamp(end))
}
