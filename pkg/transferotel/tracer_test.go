package transferotel

import (
	"context"
	"errors"
	"testing"
	"time"

	transfer "github.com/goliatone/go-transfer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorder() (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	recorder := tracetest.NewSpanRecorder()
	return recorder, sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
}

func TestLoggerRecordsCommittedTransfers(t *testing.T) {
	recorder, provider := newRecorder()
	logger := New(context.Background(), provider.Tracer("test"))

	logger.LogTransfer(transfer.TransferLogEvent{Handler: "chest", Operation: transfer.OperationInsert, Action: transfer.Simulate, Slot: -1, Moved: 4})
	logger.LogTransfer(transfer.TransferLogEvent{Handler: "chest", Operation: transfer.OperationInsert, Action: transfer.Act, Slot: 1, Requested: 5, Moved: 4, Duration: time.Millisecond})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "transfer.insert" {
		t.Fatalf("unexpected span name %q", span.Name())
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs["transfer.handler"].AsString() != "chest" || attrs["transfer.moved"].AsInt64() != 4 || attrs["transfer.slot"].AsInt64() != 1 {
		t.Fatalf("unexpected attributes %#v", attrs)
	}
	if got := span.EndTime().Sub(span.StartTime()); got != time.Millisecond {
		t.Fatalf("expected span duration 1ms, got %s", got)
	}
}

func TestLoggerMarksErrors(t *testing.T) {
	recorder, provider := newRecorder()
	logger := New(context.Background(), provider.Tracer("test"))
	logger.IncludeSimulate = true

	logger.LogTransfer(transfer.TransferLogEvent{Operation: transfer.OperationExtract, Action: transfer.Act, Err: errors.New("sink down")})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Fatalf("expected error status, got %v", spans[0].Status())
	}
}

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), "transfer", "")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
